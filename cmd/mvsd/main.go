package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // only served when profilerAddr is set
	"os"
	"time"

	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/settings"
	"github.com/mvs-org/mvsd/ulogger"
	"github.com/mvs-org/mvsd/util/servicemanager"
	"github.com/ordishs/gocore"
	"github.com/urfave/cli/v2"
)

// Name used by build script for the binaries. (Please keep on single line)
const progname = "mvsd"

// Version & commit strings injected at build with -ldflags -X...
var version string
var commit string

func init() {
	gocore.SetInfo(progname, version, commit)
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    progname,
		Usage:   "MVS full node core: ledger, block chain and transaction pool",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Description: "Settings are read from settings.conf and settings_local.conf, for example\n" +
			"network=mainnet|testnet|regtest, dataFolder, metricsListenAddress and profilerAddr.",
		Action: start,
		Commands: []*cli.Command{
			{
				Name:   "settings",
				Usage:  "Print the resolved settings and exit",
				Action: printSettings,
			},
		},
	}
}

func start(_ *cli.Context) error {
	tSettings := settings.NewSettings()

	logger := ulogger.New(progname, ulogger.WithLevel(tSettings.LogLevel), ulogger.WithPrettyLogs(tSettings.PrettyLogs))

	stats := gocore.Config().Stats()
	logger.Infof("STATS\n%s\nVERSION\n-------\n%s (%s)\n\n", stats, version, commit)

	return run(logger, tSettings)
}

func printSettings(c *cli.Context) error {
	tSettings := settings.NewSettings()

	w := c.App.Writer
	fmt.Fprintf(w, "network              %s\n", tSettings.Network)
	fmt.Fprintf(w, "ledger               %s\n", tSettings.Ledger.Dir)
	fmt.Fprintf(w, "orphan pool capacity %d\n", tSettings.BlockChain.OrphanPoolCapacity)
	fmt.Fprintf(w, "max reorg depth      %d\n", tSettings.BlockChain.MaxReorgDepth)
	fmt.Fprintf(w, "tx pool capacity     %d\n", tSettings.TxPool.Capacity)
	fmt.Fprintf(w, "metrics              %s%s\n", tSettings.MetricsListenAddress, tSettings.PrometheusEndpoint)

	return nil
}

func run(logger ulogger.Logger, tSettings *settings.Settings) error {
	if tSettings.ProfilerAddr != "" {
		go func() {
			logger.Infof("Starting profile on http://%s/debug/pprof", tSettings.ProfilerAddr)

			server := &http.Server{Addr: tSettings.ProfilerAddr, ReadHeaderTimeout: 10 * time.Second}
			logger.Warnf("profiler stopped: %v", server.ListenAndServe())
		}()
	}

	sm := servicemanager.NewServiceManager(context.Background(), logger)

	if err := newNode(logger, tSettings).register(sm); err != nil {
		sm.ForceShutdown()
		return errors.Join(err, sm.Wait())
	}

	return sm.Wait()
}
