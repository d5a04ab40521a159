// Package servicemanager starts services in order, aggregates their health
// and stops them in reverse order.
package servicemanager

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/ulogger"
	"github.com/mvs-org/mvsd/util/health"
	"golang.org/x/sync/errgroup"
)

// Service is a long running component of the node.
type Service interface {
	Init(ctx context.Context) error
	// Start runs the service until ctx is done. It closes readyCh once the
	// service can be depended on.
	Start(ctx context.Context, readyCh chan<- struct{}) error
	Stop(ctx context.Context) error
	Health(ctx context.Context, checkLiveness bool) (int, string, error)
}

const (
	startTimeout = 30 * time.Second
	stopTimeout  = 10 * time.Second
)

type serviceWrapper struct {
	name     string
	instance Service
	readyCh  chan struct{}
}

// ServiceManager runs services registered with AddService. Each service
// starts once the one registered before it is ready.
type ServiceManager struct {
	logger     ulogger.Logger
	Ctx        context.Context
	cancelFunc context.CancelFunc
	g          *errgroup.Group

	mu       sync.Mutex
	services []serviceWrapper
}

// NewServiceManager returns a manager whose context is cancelled on SIGINT
// or SIGTERM.
func NewServiceManager(ctx context.Context, logger ulogger.Logger) *ServiceManager {
	ctx, cancelFunc := context.WithCancel(ctx)
	g, gCtx := errgroup.WithContext(ctx)

	sm := &ServiceManager{
		logger:     logger,
		Ctx:        gCtx,
		cancelFunc: cancelFunc,
		g:          g,
	}

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigs)

		select {
		case sig := <-sigs:
			sm.logger.Infof("Received %s. Stopping services...", sig)
			sm.cancelFunc()
		case <-gCtx.Done():
		}
	}()

	return sm
}

// AddService initializes service and schedules its start.
func (sm *ServiceManager) AddService(name string, service Service) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sw := serviceWrapper{
		name:     name,
		instance: service,
		readyCh:  make(chan struct{}),
	}

	var (
		previousName  string
		previousReady <-chan struct{}
	)

	if len(sm.services) > 0 {
		previous := sm.services[len(sm.services)-1]
		previousName, previousReady = previous.name, previous.readyCh
	}

	sm.logger.Infof("Initializing service %s...", name)

	if err := service.Init(sm.Ctx); err != nil {
		return errors.NewServiceError("failed to initialize %s", name, err)
	}

	sm.services = append(sm.services, sw)

	sm.g.Go(func() error {
		if previousReady != nil {
			if err := sm.waitForReady(previousName, previousReady); err != nil {
				return err
			}
		}

		sm.logger.Infof("Starting service %s...", name)

		if err := service.Start(sm.Ctx, sw.readyCh); err != nil {
			sm.logger.Errorf("Error from service start %s: %v", name, err)
			return err
		}

		return nil
	})

	return nil
}

func (sm *ServiceManager) waitForReady(name string, readyCh <-chan struct{}) error {
	timer := time.NewTimer(startTimeout)
	defer timer.Stop()

	select {
	case <-readyCh:
		return nil
	case <-sm.Ctx.Done():
		return sm.Ctx.Err()
	case <-timer.C:
		return errors.NewServiceError("timed out waiting for %s to be ready", name)
	}
}

// WaitForServiceToBeReady blocks until every registered service is ready
// or the manager is cancelled.
func (sm *ServiceManager) WaitForServiceToBeReady() error {
	for _, service := range sm.snapshot() {
		select {
		case <-service.readyCh:
			sm.logger.Infof("Service %s is ready", service.name)
		case <-sm.Ctx.Done():
			return sm.Ctx.Err()
		}
	}

	return nil
}

// ServicesNotReady returns the names of services that have not signalled
// readiness.
func (sm *ServiceManager) ServicesNotReady() []string {
	var notReady []string

	for _, service := range sm.snapshot() {
		select {
		case <-service.readyCh:
		default:
			notReady = append(notReady, service.name)
		}
	}

	return notReady
}

// ForceShutdown cancels every service.
func (sm *ServiceManager) ForceShutdown() {
	sm.cancelFunc()
}

// Wait blocks until the services return, then stops them in reverse
// order. Cancellation is not reported as an error.
func (sm *ServiceManager) Wait() error {
	err := sm.g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	} else if err != nil {
		sm.logger.Errorf("Received error: %v", err)
	}

	sm.cancelFunc()

	services := sm.snapshot()

	for i := len(services) - 1; i >= 0; i-- {
		service := services[i]

		stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)

		sm.logger.Infof("Stopping service %s...", service.name)

		if stopErr := service.instance.Stop(stopCtx); stopErr != nil {
			sm.logger.Warnf("[%s] Failed to stop service: %v", service.name, stopErr)
			err = errors.Join(err, stopErr)
		} else {
			sm.logger.Infof("[%s] Service stopped gracefully", service.name)
		}

		stopCancel()
	}

	sm.logger.Infof("All services stopped.")

	return err
}

// HealthHandler aggregates the health of every registered service.
func (sm *ServiceManager) HealthHandler(ctx context.Context, checkLiveness bool) (int, string, error) {
	services := sm.snapshot()
	checks := make([]health.Check, 0, len(services))

	for _, service := range services {
		checks = append(checks, health.Check{Name: service.name, Check: service.instance.Health})
	}

	return health.CheckAll(ctx, checkLiveness, checks)
}

// HandleHealth serves HealthHandler over http.
func (sm *ServiceManager) HandleHealth(checkLiveness bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, details, err := sm.HealthHandler(r.Context(), checkLiveness)
		if err != nil {
			sm.logger.Errorf("health check failed: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(details))
	}
}

func (sm *ServiceManager) snapshot() []serviceWrapper {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return append([]serviceWrapper(nil), sm.services...)
}
