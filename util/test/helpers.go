package test

import (
	"github.com/mvs-org/mvsd/chaincfg"
	"github.com/mvs-org/mvsd/settings"
)

// CreateBaseTestSettings returns regtest settings with the ledger rooted at dir
// and a short coinbase maturity.
func CreateBaseTestSettings(dir string) *settings.Settings {
	tSettings := settings.NewTestSettings(dir)

	params := chaincfg.RegressionNetParams
	params.CoinbaseMaturity = 2
	tSettings.ChainCfgParams = &params

	tSettings.BlockChain.OrphanPoolCapacity = 16
	tSettings.TxPool.Capacity = 16

	return tSettings
}
