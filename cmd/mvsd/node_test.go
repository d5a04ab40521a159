package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mvs-org/mvsd/ulogger"
	"github.com/mvs-org/mvsd/util/servicemanager"
	"github.com/mvs-org/mvsd/util/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startNode(t *testing.T, n *node) *servicemanager.ServiceManager {
	t.Helper()

	sm := servicemanager.NewServiceManager(context.Background(), ulogger.TestLogger{})
	require.NoError(t, n.register(sm))
	require.NoError(t, sm.WaitForServiceToBeReady())

	return sm
}

func TestNodeStartStop(t *testing.T) {
	ctx := context.Background()
	tSettings := test.CreateBaseTestSettings(t.TempDir())
	params := tSettings.ChainCfgParams
	alice := test.NewKey(1)
	logger := ulogger.NewErrorTestLogger(t)

	n := newNode(logger, tSettings)
	sm := startNode(t, n)

	blocks := test.Chain(params.GenesisBlock, alice, params.Subsidy(1), 3)
	for _, block := range blocks {
		_, err := n.chain.Store(ctx, block)
		require.NoError(t, err)
	}

	coinbase := blocks[0].Transactions[0]
	spend := test.Spend(coinbase, 0, alice, test.Currency(coinbase.Outputs[0].Value-10000, test.NewKey(2).PayScript()))

	_, err := n.pool.Store(ctx, spend, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n.pool.Size())

	status, _, err := sm.HealthHandler(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	sm.ForceShutdown()
	require.NoError(t, sm.Wait())

	// the ledger reopens at the same height
	n = newNode(logger, tSettings)
	sm = startNode(t, n)

	top, err := n.chain.GetTopHeight()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), top)
	assert.Equal(t, 0, n.pool.Size())

	sm.ForceShutdown()
	require.NoError(t, sm.Wait())

	// stopped services report not ready
	status, _, err = n.chain.Health(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestHTTPService(t *testing.T) {
	tSettings := test.CreateBaseTestSettings(t.TempDir())
	tSettings.MetricsListenAddress = "127.0.0.1:0"

	n := newNode(ulogger.TestLogger{}, tSettings)
	sm := startNode(t, n)

	defer func() {
		sm.ForceShutdown()
		require.NoError(t, sm.Wait())
	}()

	s := &httpService{logger: ulogger.TestLogger{}, settings: tSettings, sm: sm}
	require.NoError(t, s.Init(context.Background()))

	for path, want := range map[string]int{
		"/health/liveness":           http.StatusOK,
		"/health/readiness":          http.StatusOK,
		tSettings.PrometheusEndpoint: http.StatusOK,
	} {
		w := httptest.NewRecorder()
		s.e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, want, w.Code, path)

		body, err := io.ReadAll(w.Result().Body)
		require.NoError(t, err)
		assert.NotEmpty(t, body, path)
	}
}

func TestSettingsCommand(t *testing.T) {
	var buf bytes.Buffer

	app := newApp()
	app.Writer = &buf

	require.NoError(t, app.Run([]string{progname, "settings"}))
	assert.Contains(t, buf.String(), "tx pool capacity")
}
