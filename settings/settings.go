package settings

import (
	"path/filepath"
	"time"

	"github.com/mvs-org/mvsd/chaincfg"
)

func NewSettings() *Settings {
	network := getString("network", "mainnet")

	params, err := chaincfg.GetChainParams(network)
	if err != nil {
		panic(err)
	}

	dataFolder := getString("dataFolder", "data")

	return &Settings{
		ClientName:           getString("clientName", "mvsd"),
		DataFolder:           dataFolder,
		LogLevel:             getString("logLevel", "INFO"),
		PrettyLogs:           getBool("PRETTY_LOGS", true),
		ProfilerAddr:         getString("profilerAddr", ""),
		MetricsListenAddress: getString("metricsListenAddress", ""),
		PrometheusEndpoint:   getString("prometheusEndpoint", "/metrics"),
		Network:              network,
		ChainCfgParams:       params,
		Ledger: LedgerSettings{
			Dir:            getString("ledger_dir", filepath.Join(dataFolder, "ledger", network)),
			InitialMmapMB:  getInt("ledger_initialMmapSize", 64),
			ReadRetrySleep: getDuration("ledger_readRetrySleep", 10*time.Millisecond),
			LockTimeout:    getDuration("ledger_lockTimeout", 0),
			NoSync:         getBool("ledger_noSync", false),
		},
		BlockChain: BlockChainSettings{
			OrphanPoolCapacity: getInt("blockchain_orphanPoolCapacity", 50),
			RejectedCacheTTL:   getDuration("blockchain_rejectedCacheTTL", 10*time.Minute),
			MaxReorgDepth:      getInt("blockchain_maxReorgDepth", 0),
		},
		TxPool: TxPoolSettings{
			Capacity:            getInt("txpool_capacity", 2000),
			MaintainConsistency: getBool("txpool_maintainConsistency", true),
		},
		Validator: ValidatorSettings{
			UseTestnetRules:   getBool("validator_useTestnetRules", network != "mainnet"),
			AcceptNonStandard: getBool("validator_acceptNonStandard", false),
		},
	}
}

// NewTestSettings returns regtest settings rooted at dir, suitable for unit tests.
func NewTestSettings(dir string) *Settings {
	tSettings := NewSettings()

	tSettings.Network = chaincfg.RegressionNetParams.Name
	tSettings.ChainCfgParams = &chaincfg.RegressionNetParams
	tSettings.DataFolder = dir
	tSettings.Ledger.Dir = filepath.Join(dir, "ledger")
	tSettings.Ledger.ReadRetrySleep = time.Millisecond
	tSettings.Ledger.NoSync = true
	tSettings.Validator.UseTestnetRules = true
	tSettings.ProfilerAddr = ""
	tSettings.MetricsListenAddress = ""

	return tSettings
}
