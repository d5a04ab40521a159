package main

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/services/blockchain"
	"github.com/mvs-org/mvsd/services/txpool"
	"github.com/mvs-org/mvsd/settings"
	"github.com/mvs-org/mvsd/ulogger"
	"github.com/mvs-org/mvsd/util/servicemanager"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// chainService runs the block chain under the service manager.
type chainService struct {
	chain *blockchain.BlockChain
}

func (s *chainService) Init(context.Context) error {
	return nil
}

func (s *chainService) Start(ctx context.Context, readyCh chan<- struct{}) error {
	if err := s.chain.Start(ctx); err != nil {
		return err
	}

	close(readyCh)
	<-ctx.Done()

	return nil
}

func (s *chainService) Stop(context.Context) error {
	return s.chain.Stop()
}

func (s *chainService) Health(ctx context.Context, checkLiveness bool) (int, string, error) {
	return s.chain.Health(ctx, checkLiveness)
}

// poolService runs the transaction pool and lets block validation evict
// from it.
type poolService struct {
	pool  *txpool.TxPool
	chain *blockchain.BlockChain
}

func (s *poolService) Init(context.Context) error {
	return nil
}

func (s *poolService) Start(ctx context.Context, readyCh chan<- struct{}) error {
	if err := s.pool.Start(ctx); err != nil {
		return err
	}

	s.chain.SetTxEvicter(s.pool)

	close(readyCh)
	<-ctx.Done()

	return nil
}

func (s *poolService) Stop(context.Context) error {
	s.pool.Stop()
	return nil
}

func (s *poolService) Health(ctx context.Context, checkLiveness bool) (int, string, error) {
	return s.pool.Health(ctx, checkLiveness)
}

// httpService serves prometheus metrics and the aggregated health of the
// other services.
type httpService struct {
	logger   ulogger.Logger
	settings *settings.Settings
	sm       *servicemanager.ServiceManager
	e        *echo.Echo
}

func (s *httpService) Init(context.Context) error {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.GET(s.settings.PrometheusEndpoint, echo.WrapHandler(promhttp.Handler()))
	e.GET("/health/liveness", echo.WrapHandler(s.sm.HandleHealth(true)))
	e.GET("/health/readiness", echo.WrapHandler(s.sm.HandleHealth(false)))

	s.e = e

	return nil
}

func (s *httpService) Start(ctx context.Context, readyCh chan<- struct{}) error {
	close(readyCh)

	addr := s.settings.MetricsListenAddress
	errCh := make(chan error, 1)

	go func() {
		s.logger.Infof("HTTP listening on %s, metrics at %s", addr, s.settings.PrometheusEndpoint)

		if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- errors.NewServiceError("http server failed", err)
			return
		}

		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}

func (s *httpService) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func (s *httpService) Health(context.Context, bool) (int, string, error) {
	return http.StatusOK, "OK", nil
}
