package main

import (
	"github.com/mvs-org/mvsd/services/blockchain"
	"github.com/mvs-org/mvsd/services/txpool"
	"github.com/mvs-org/mvsd/settings"
	"github.com/mvs-org/mvsd/stores/ledger"
	"github.com/mvs-org/mvsd/ulogger"
	"github.com/mvs-org/mvsd/util/servicemanager"
)

// node wires the ledger, the chain and the transaction pool together.
type node struct {
	logger   ulogger.Logger
	settings *settings.Settings
	chain    *blockchain.BlockChain
	pool     *txpool.TxPool
}

func newNode(logger ulogger.Logger, tSettings *settings.Settings) *node {
	store := ledger.New(logger.New("ledger"), tSettings)
	chain := blockchain.New(logger.New("chain"), tSettings, store)

	return &node{
		logger:   logger,
		settings: tSettings,
		chain:    chain,
		pool:     txpool.New(logger.New("pool"), tSettings, chain),
	}
}

// register adds the node's services to sm. The pool starts once the chain
// is ready and the http endpoint, when configured, comes last.
func (n *node) register(sm *servicemanager.ServiceManager) error {
	n.logger.Infof("[node] starting %s on %s", n.settings.ClientName, n.settings.Network)

	if err := sm.AddService("BlockChain", &chainService{chain: n.chain}); err != nil {
		return err
	}

	if err := sm.AddService("TxPool", &poolService{pool: n.pool, chain: n.chain}); err != nil {
		return err
	}

	if n.settings.MetricsListenAddress == "" {
		return nil
	}

	return sm.AddService("HTTP", &httpService{logger: n.logger.New("http"), settings: n.settings, sm: sm})
}
