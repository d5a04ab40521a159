package settings

import (
	"time"

	"github.com/mvs-org/mvsd/chaincfg"
)

type LedgerSettings struct {
	// Dir holds one file per table plus the metadata and lock files.
	Dir            string
	InitialMmapMB  int
	ReadRetrySleep time.Duration
	LockTimeout    time.Duration
	// NoSync skips fsync after push and pop. Only for tests.
	NoSync bool
}

type BlockChainSettings struct {
	OrphanPoolCapacity int
	RejectedCacheTTL   time.Duration
	// MaxReorgDepth bounds how many committed blocks a reorg may replace, 0 is unlimited.
	MaxReorgDepth int
}

type TxPoolSettings struct {
	Capacity            int
	MaintainConsistency bool
}

type ValidatorSettings struct {
	UseTestnetRules bool
	// AcceptNonStandard admits outputs that classify as non-standard scripts
	// for transaction versions that would otherwise reject them.
	AcceptNonStandard bool
}

type Settings struct {
	ClientName string
	DataFolder string
	LogLevel   string
	PrettyLogs bool
	// ProfilerAddr serves pprof when set.
	ProfilerAddr string
	// MetricsListenAddress serves prometheus metrics on PrometheusEndpoint when set.
	MetricsListenAddress string
	PrometheusEndpoint   string
	Network              string
	ChainCfgParams       *chaincfg.Params
	Ledger               LedgerSettings
	BlockChain           BlockChainSettings
	TxPool               TxPoolSettings
	Validator            ValidatorSettings
}
