// Package script implements the operation and script codec, the structural
// script patterns recognised by the chain, and signature operation counting.
//
// An Operation is an opcode plus optional data. Serialization is
// self-describing: bytes 1..75 are inline pushes normalised to OpSPECIAL,
// OpPUSHDATA1/2/4 carry a little-endian length prefix, and the virtual
// OpRAWDATA opcode is written without any opcode byte so that scripts which
// do not parse still round-trip byte for byte.
package script

import (
	"fmt"

	"github.com/bsv-blockchain/go-bt/v2/bscript"
)

// Opcode is wider than a byte so the virtual opcodes can never collide with
// a decoded opcode byte.
type Opcode uint16

const (
	OpZERO       = Opcode(bscript.Op0)
	OpPUSHDATA1  = Opcode(bscript.OpPUSHDATA1)
	OpPUSHDATA2  = Opcode(bscript.OpPUSHDATA2)
	OpPUSHDATA4  = Opcode(bscript.OpPUSHDATA4)
	OpNEGATIVE1  = Opcode(bscript.Op1NEGATE)
	OpRESERVED   = Opcode(0x50)
	OpPOSITIVE1  = Opcode(bscript.Op1)
	OpPOSITIVE16 = Opcode(bscript.Op16)

	OpNOP                 = Opcode(bscript.OpNOP)
	OpVER                 = Opcode(0x62)
	OpIF                  = Opcode(bscript.OpIF)
	OpNOTIF               = Opcode(bscript.OpNOTIF)
	OpVERIF               = Opcode(0x65)
	OpVERNOTIF            = Opcode(0x66)
	OpELSE                = Opcode(bscript.OpELSE)
	OpENDIF               = Opcode(bscript.OpENDIF)
	OpVERIFY              = Opcode(bscript.OpVERIFY)
	OpRETURN              = Opcode(bscript.OpRETURN)
	OpTOALTSTACK          = Opcode(0x6b)
	OpFROMALTSTACK        = Opcode(0x6c)
	Op2DROP               = Opcode(0x6d)
	Op2DUP                = Opcode(0x6e)
	Op3DUP                = Opcode(0x6f)
	Op2OVER               = Opcode(0x70)
	Op2ROT                = Opcode(0x71)
	Op2SWAP               = Opcode(0x72)
	OpIFDUP               = Opcode(0x73)
	OpDEPTH               = Opcode(0x74)
	OpDROP                = Opcode(bscript.OpDROP)
	OpDUP                 = Opcode(bscript.OpDUP)
	OpNIP                 = Opcode(0x77)
	OpOVER                = Opcode(0x78)
	OpPICK                = Opcode(0x79)
	OpROLL                = Opcode(0x7a)
	OpROT                 = Opcode(0x7b)
	OpSWAP                = Opcode(0x7c)
	OpTUCK                = Opcode(0x7d)
	OpCAT                 = Opcode(0x7e)
	OpSUBSTR              = Opcode(0x7f)
	OpLEFT                = Opcode(0x80)
	OpRIGHT               = Opcode(0x81)
	OpSIZE                = Opcode(0x82)
	OpINVERT              = Opcode(0x83)
	OpAND                 = Opcode(0x84)
	OpOR                  = Opcode(0x85)
	OpXOR                 = Opcode(0x86)
	OpEQUAL               = Opcode(bscript.OpEQUAL)
	OpEQUALVERIFY         = Opcode(bscript.OpEQUALVERIFY)
	OpRESERVED1           = Opcode(0x89)
	OpRESERVED2           = Opcode(0x8a)
	Op1ADD                = Opcode(0x8b)
	Op1SUB                = Opcode(0x8c)
	Op2MUL                = Opcode(0x8d)
	Op2DIV                = Opcode(0x8e)
	OpNEGATE              = Opcode(0x8f)
	OpABS                 = Opcode(0x90)
	OpNOT                 = Opcode(0x91)
	Op0NOTEQUAL           = Opcode(0x92)
	OpADD                 = Opcode(0x93)
	OpSUB                 = Opcode(0x94)
	OpMUL                 = Opcode(0x95)
	OpDIV                 = Opcode(0x96)
	OpMOD                 = Opcode(0x97)
	OpLSHIFT              = Opcode(0x98)
	OpRSHIFT              = Opcode(0x99)
	OpBOOLAND             = Opcode(0x9a)
	OpBOOLOR              = Opcode(0x9b)
	OpNUMEQUAL            = Opcode(0x9c)
	OpNUMEQUALVERIFY      = Opcode(0x9d)
	OpNUMNOTEQUAL         = Opcode(0x9e)
	OpLESSTHAN            = Opcode(0x9f)
	OpGREATERTHAN         = Opcode(0xa0)
	OpLESSTHANOREQUAL     = Opcode(0xa1)
	OpGREATERTHANOREQUAL  = Opcode(0xa2)
	OpMIN                 = Opcode(0xa3)
	OpMAX                 = Opcode(0xa4)
	OpWITHIN              = Opcode(0xa5)
	OpRIPEMD160           = Opcode(bscript.OpRIPEMD160)
	OpSHA1                = Opcode(0xa7)
	OpSHA256              = Opcode(bscript.OpSHA256)
	OpHASH160             = Opcode(bscript.OpHASH160)
	OpHASH256             = Opcode(bscript.OpHASH256)
	OpCODESEPARATOR       = Opcode(bscript.OpCODESEPARATOR)
	OpCHECKSIG            = Opcode(bscript.OpCHECKSIG)
	OpCHECKSIGVERIFY      = Opcode(bscript.OpCHECKSIGVERIFY)
	OpCHECKMULTISIG       = Opcode(bscript.OpCHECKMULTISIG)
	OpCHECKMULTISIGVERIFY = Opcode(bscript.OpCHECKMULTISIGVERIFY)
	OpNOP1                = Opcode(0xb0)
	OpCHECKLOCKTIMEVERIFY = Opcode(0xb1)
	// OpCHECKATTENUATIONVERIFY takes the place of NOP3.
	OpCHECKATTENUATIONVERIFY = Opcode(0xb2)
	OpNOP4                   = Opcode(0xb3)
	OpNOP10                  = Opcode(0xb9)

	// OpSPECIAL tags an inline push of 1..75 bytes.
	OpSPECIAL Opcode = 0x100
	// OpRAWDATA carries an unparsed script verbatim and has no opcode byte.
	OpRAWDATA Opcode = 0x101
)

var opcodeNames = map[Opcode]string{
	OpZERO:                   "zero",
	OpPUSHDATA1:              "pushdata1",
	OpPUSHDATA2:              "pushdata2",
	OpPUSHDATA4:              "pushdata4",
	OpNEGATIVE1:              "-1",
	OpRESERVED:               "reserved",
	OpNOP:                    "nop",
	OpVER:                    "ver",
	OpIF:                     "if",
	OpNOTIF:                  "notif",
	OpVERIF:                  "verif",
	OpVERNOTIF:               "vernotif",
	OpELSE:                   "else",
	OpENDIF:                  "endif",
	OpVERIFY:                 "verify",
	OpRETURN:                 "return",
	OpTOALTSTACK:             "toaltstack",
	OpFROMALTSTACK:           "fromaltstack",
	Op2DROP:                  "2drop",
	Op2DUP:                   "2dup",
	Op3DUP:                   "3dup",
	Op2OVER:                  "2over",
	Op2ROT:                   "2rot",
	Op2SWAP:                  "2swap",
	OpIFDUP:                  "ifdup",
	OpDEPTH:                  "depth",
	OpDROP:                   "drop",
	OpDUP:                    "dup",
	OpNIP:                    "nip",
	OpOVER:                   "over",
	OpPICK:                   "pick",
	OpROLL:                   "roll",
	OpROT:                    "rot",
	OpSWAP:                   "swap",
	OpTUCK:                   "tuck",
	OpCAT:                    "cat",
	OpSUBSTR:                 "substr",
	OpLEFT:                   "left",
	OpRIGHT:                  "right",
	OpSIZE:                   "size",
	OpINVERT:                 "invert",
	OpAND:                    "and",
	OpOR:                     "or",
	OpXOR:                    "xor",
	OpEQUAL:                  "equal",
	OpEQUALVERIFY:            "equalverify",
	OpRESERVED1:              "reserved1",
	OpRESERVED2:              "reserved2",
	Op1ADD:                   "add1",
	Op1SUB:                   "sub1",
	Op2MUL:                   "mul2",
	Op2DIV:                   "div2",
	OpNEGATE:                 "negate",
	OpABS:                    "abs",
	OpNOT:                    "not",
	Op0NOTEQUAL:              "nonzero",
	OpADD:                    "add",
	OpSUB:                    "sub",
	OpMUL:                    "mul",
	OpDIV:                    "div",
	OpMOD:                    "mod",
	OpLSHIFT:                 "lshift",
	OpRSHIFT:                 "rshift",
	OpBOOLAND:                "booland",
	OpBOOLOR:                 "boolor",
	OpNUMEQUAL:               "numequal",
	OpNUMEQUALVERIFY:         "numequalverify",
	OpNUMNOTEQUAL:            "numnotequal",
	OpLESSTHAN:               "lessthan",
	OpGREATERTHAN:            "greaterthan",
	OpLESSTHANOREQUAL:        "lessthanorequal",
	OpGREATERTHANOREQUAL:     "greaterthanorequal",
	OpMIN:                    "min",
	OpMAX:                    "max",
	OpWITHIN:                 "within",
	OpRIPEMD160:              "ripemd160",
	OpSHA1:                   "sha1",
	OpSHA256:                 "sha256",
	OpHASH160:                "hash160",
	OpHASH256:                "hash256",
	OpCODESEPARATOR:          "codeseparator",
	OpCHECKSIG:               "checksig",
	OpCHECKSIGVERIFY:         "checksigverify",
	OpCHECKMULTISIG:          "checkmultisig",
	OpCHECKMULTISIGVERIFY:    "checkmultisigverify",
	OpNOP1:                   "nop1",
	OpCHECKLOCKTIMEVERIFY:    "checklocktimeverify",
	OpCHECKATTENUATIONVERIFY: "checkattenuationverify",
	OpSPECIAL:                "special",
	OpRAWDATA:                "rawdata",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}

	if o >= OpPOSITIVE1 && o <= OpPOSITIVE16 {
		return fmt.Sprintf("%d", o-OpPOSITIVE1+1)
	}

	if o >= OpNOP4 && o <= OpNOP10 {
		return fmt.Sprintf("nop%d", o-OpNOP4+4)
	}

	return fmt.Sprintf("0x%02x", uint16(o))
}

// IsPushCode reports whether the opcode carries data.
func (o Opcode) IsPushCode() bool {
	switch o {
	case OpZERO, OpSPECIAL, OpPUSHDATA1, OpPUSHDATA2, OpPUSHDATA4:
		return true
	default:
		return false
	}
}

// IsPositive reports whether the opcode is one of OP_1 through OP_16.
func (o Opcode) IsPositive() bool {
	return o >= OpPOSITIVE1 && o <= OpPOSITIVE16
}

// PositiveValue returns n for OP_n, or 0 when the opcode is not OP_1..OP_16.
func (o Opcode) PositiveValue() int {
	if !o.IsPositive() {
		return 0
	}

	return int(o-OpPOSITIVE1) + 1
}

// OpcodeFromPositive returns OP_n for n in 1..16. It panics outside that range.
func OpcodeFromPositive(n int) Opcode {
	if n < 1 || n > 16 {
		panic(fmt.Sprintf("positive opcode out of range: %d", n))
	}

	return OpPOSITIVE1 + Opcode(n-1)
}

// IsDisabled reports whether executing the opcode always fails.
func (o Opcode) IsDisabled() bool {
	switch o {
	case OpCAT, OpSUBSTR, OpLEFT, OpRIGHT, OpINVERT, OpAND, OpOR, OpXOR,
		Op2MUL, Op2DIV, OpMUL, OpDIV, OpMOD, OpLSHIFT, OpRSHIFT:
		return true
	default:
		return false
	}
}
