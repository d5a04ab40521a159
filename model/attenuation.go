package model

import (
	"math"
	"strconv"
	"strings"

	"github.com/mvs-org/mvsd/errors"
)

// Attenuation model types.
const (
	AttenuationFixed  uint64 = 1
	AttenuationCustom uint64 = 2
)

// AttenuationModel describes how a locked token quantity unlocks over a
// number of periods. PeriodNumber and LatestLockHeight track progress: the
// current period and the blocks left in it.
type AttenuationModel struct {
	PeriodNumber     uint64
	LatestLockHeight uint64
	Type             uint64
	LockedQuantity   uint64
	LockPeriod       uint64
	UnlockNumber     uint64
	InflationRate    uint64
	UnlockCycles     []uint64
	UnlockQuantities []uint64
}

// ParseAttenuationModel parses a "KEY=VALUE;..." parameter blob.
func ParseAttenuationModel(param []byte) (*AttenuationModel, error) {
	m := &AttenuationModel{}
	seen := make(map[string]bool)

	for _, field := range strings.Split(string(param), ";") {
		if field == "" {
			continue
		}

		key, value, found := strings.Cut(field, "=")
		if !found || seen[key] {
			return nil, errors.NewAttenuationModelParamError("malformed field %q", field)
		}

		seen[key] = true

		var err error

		switch key {
		case "PN":
			m.PeriodNumber, err = parseUint(value)
		case "LH":
			m.LatestLockHeight, err = parseUint(value)
		case "TYPE":
			m.Type, err = parseUint(value)
		case "LQ":
			m.LockedQuantity, err = parseUint(value)
		case "LP":
			m.LockPeriod, err = parseUint(value)
		case "UN":
			m.UnlockNumber, err = parseUint(value)
		case "IR":
			m.InflationRate, err = parseUint(value)
		case "UC":
			m.UnlockCycles, err = parseUintList(value)
		case "UQ":
			m.UnlockQuantities, err = parseUintList(value)
		default:
			return nil, errors.NewAttenuationModelParamError("unknown key %q", key)
		}

		if err != nil {
			return nil, errors.NewAttenuationModelParamError("invalid value for %s", key, err)
		}
	}

	for _, key := range []string{"PN", "LH", "TYPE", "LQ", "LP", "UN"} {
		if !seen[key] {
			return nil, errors.NewAttenuationModelParamError("missing key %s", key)
		}
	}

	return m, nil
}

func parseUint(value string) (uint64, error) {
	return strconv.ParseUint(value, 10, 64)
}

func parseUintList(value string) ([]uint64, error) {
	parts := strings.Split(value, ",")
	list := make([]uint64, 0, len(parts))

	for _, part := range parts {
		v, err := parseUint(part)
		if err != nil {
			return nil, err
		}

		list = append(list, v)
	}

	return list, nil
}

// Encode writes the parameter blob in canonical key order.
func (m *AttenuationModel) Encode() []byte {
	var sb strings.Builder

	write := func(key string, v uint64) {
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(strconv.FormatUint(v, 10))
		sb.WriteByte(';')
	}

	writeList := func(key string, list []uint64) {
		parts := make([]string, len(list))
		for i, v := range list {
			parts[i] = strconv.FormatUint(v, 10)
		}

		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(strings.Join(parts, ","))
		sb.WriteByte(';')
	}

	write("PN", m.PeriodNumber)
	write("LH", m.LatestLockHeight)
	write("TYPE", m.Type)
	write("LQ", m.LockedQuantity)
	write("LP", m.LockPeriod)
	write("UN", m.UnlockNumber)

	if m.InflationRate != 0 {
		write("IR", m.InflationRate)
	}

	if len(m.UnlockCycles) > 0 {
		writeList("UC", m.UnlockCycles)
	}

	if len(m.UnlockQuantities) > 0 {
		writeList("UQ", m.UnlockQuantities)
	}

	return []byte(strings.TrimSuffix(sb.String(), ";"))
}

// periods returns the length and unlock quantity of every period. Fixed
// models split evenly and give the remainder to the last period.
func (m *AttenuationModel) periods() ([]uint64, []uint64) {
	if m.Type == AttenuationCustom {
		return m.UnlockCycles, m.UnlockQuantities
	}

	if m.UnlockNumber == 0 || m.UnlockNumber > m.LockPeriod {
		return nil, nil
	}

	cycles := make([]uint64, m.UnlockNumber)
	quantities := make([]uint64, m.UnlockNumber)

	cycle := m.LockPeriod / m.UnlockNumber
	quantity := m.LockedQuantity / m.UnlockNumber

	for i := range cycles {
		cycles[i] = cycle
		quantities[i] = quantity
	}

	last := m.UnlockNumber - 1
	cycles[last] = m.LockPeriod - cycle*last
	quantities[last] = m.LockedQuantity - quantity*last

	return cycles, quantities
}

// Validate checks the model against the supply of the token it locks.
func (m *AttenuationModel) Validate(maxSupply uint64) error {
	if m.Type != AttenuationFixed && m.Type != AttenuationCustom {
		return errors.NewAttenuationModelParamError("unsupported type %d", m.Type)
	}

	if m.InflationRate != 0 {
		return errors.NewAttenuationModelParamError("inflation rate is not supported")
	}

	if m.LockedQuantity == 0 || m.LockedQuantity > maxSupply {
		return errors.NewAttenuationModelParamError("locked quantity %d outside 1..%d", m.LockedQuantity, maxSupply)
	}

	if m.LockPeriod == 0 || m.UnlockNumber == 0 || m.UnlockNumber > m.LockPeriod {
		return errors.NewAttenuationModelParamError("lock period %d with %d unlocks", m.LockPeriod, m.UnlockNumber)
	}

	switch m.Type {
	case AttenuationFixed:
		if m.LockedQuantity < m.UnlockNumber {
			return errors.NewAttenuationModelParamError("locked quantity %d below unlock number %d", m.LockedQuantity, m.UnlockNumber)
		}

		if len(m.UnlockCycles) != 0 || len(m.UnlockQuantities) != 0 {
			return errors.NewAttenuationModelParamError("fixed model with custom cycles")
		}
	case AttenuationCustom:
		if uint64(len(m.UnlockCycles)) != m.UnlockNumber || uint64(len(m.UnlockQuantities)) != m.UnlockNumber {
			return errors.NewAttenuationModelParamError("custom model needs %d cycles and quantities", m.UnlockNumber)
		}

		if sum, ok := sumPositive(m.UnlockCycles); !ok || sum != m.LockPeriod {
			return errors.NewAttenuationModelParamError("unlock cycles do not sum to lock period %d", m.LockPeriod)
		}

		if sum, ok := sumPositive(m.UnlockQuantities); !ok || sum != m.LockedQuantity {
			return errors.NewAttenuationModelParamError("unlock quantities do not sum to locked quantity %d", m.LockedQuantity)
		}
	}

	cycles, _ := m.periods()

	if m.PeriodNumber >= m.UnlockNumber {
		return errors.NewAttenuationModelParamError("period %d beyond %d unlocks", m.PeriodNumber, m.UnlockNumber)
	}

	if m.LatestLockHeight == 0 || m.LatestLockHeight > cycles[m.PeriodNumber] {
		return errors.NewAttenuationModelParamError("latest lock height %d outside period of %d blocks", m.LatestLockHeight, cycles[m.PeriodNumber])
	}

	return nil
}

func sumPositive(values []uint64) (uint64, bool) {
	var sum uint64

	for _, v := range values {
		if v == 0 || v > math.MaxUint64-sum {
			return 0, false
		}

		sum += v
	}

	return sum, true
}

// LockedNow is the quantity still locked in the current and later periods.
func (m *AttenuationModel) LockedNow() uint64 {
	_, quantities := m.periods()

	var locked uint64
	for i := m.PeriodNumber; i < uint64(len(quantities)); i++ {
		locked += quantities[i]
	}

	return locked
}

// AvailableQuantity is the quantity unlocked once elapsed blocks pass.
func (m *AttenuationModel) AvailableQuantity(elapsed uint64) uint64 {
	next, _ := m.Advance(elapsed)
	if next == nil {
		return m.LockedNow()
	}

	return m.LockedNow() - next.LockedNow()
}

// Advance returns the model after elapsed blocks, or false when every
// period has unlocked.
func (m *AttenuationModel) Advance(elapsed uint64) (*AttenuationModel, bool) {
	cycles, _ := m.periods()

	pn := m.PeriodNumber
	lh := m.LatestLockHeight

	for pn < uint64(len(cycles)) && elapsed >= lh {
		elapsed -= lh
		pn++

		if pn < uint64(len(cycles)) {
			lh = cycles[pn]
		}
	}

	if pn >= uint64(len(cycles)) {
		return nil, false
	}

	next := *m
	next.PeriodNumber = pn
	next.LatestLockHeight = lh - elapsed

	return &next, true
}
