package settings

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mvs-org/mvsd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// check settings object is initialised
func TestInitialiseSettings(t *testing.T) {
	tSettings := NewSettings()

	require.NotNil(t, tSettings.ChainCfgParams)
	assert.Equal(t, tSettings.Network, tSettings.ChainCfgParams.Name)
	assert.Equal(t, 10*time.Millisecond, tSettings.Ledger.ReadRetrySleep)
	assert.Positive(t, tSettings.BlockChain.OrphanPoolCapacity)
	assert.Positive(t, tSettings.TxPool.Capacity)
	assert.NotEmpty(t, tSettings.Ledger.Dir)
}

func TestNewTestSettings(t *testing.T) {
	dir := t.TempDir()

	tSettings := NewTestSettings(dir)

	assert.Equal(t, &chaincfg.RegressionNetParams, tSettings.ChainCfgParams)
	assert.Equal(t, filepath.Join(dir, "ledger"), tSettings.Ledger.Dir)
	assert.True(t, tSettings.Ledger.NoSync)
	assert.True(t, tSettings.Validator.UseTestnetRules)
	assert.Empty(t, tSettings.MetricsListenAddress)
	assert.Equal(t, "/metrics", tSettings.PrometheusEndpoint)
}
