package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gotick/host/config"
	"gotick/host/monitor"
	"gotick/host/serial"
)

var errViolations = errors.New("uptime check failed")

type command struct {
	root    *cobra.Command
	config  *viper.Viper
	cfgFile string
}

func newCommand() *command {
	c := &command{config: viper.New()}
	c.root = &cobra.Command{
		Use:           "tickmon",
		Short:         "Check a device uptime counter against the host clock",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.config)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	c.setFlags()
	return c
}

// Execute parses command line arguments and runs the monitor.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newCommand().root.ExecuteContext(ctx)
}

func (c *command) setFlags() {
	f := c.root.Flags()
	f.StringVar(&c.cfgFile, "config", "", "JSON config file")
	f.String(config.OptionDevice, "/dev/ttyACM0", "serial device path")
	f.Int(config.OptionBaud, serial.DefaultBaud, "baud rate (ignored for USB CDC)")
	f.Duration(config.OptionReadTimeout, 3*time.Second, "give up if no data arrives for this long")
	f.Int(config.OptionSamples, 0, "stop after this many reports (0 runs until interrupted)")
	f.Float64(config.OptionTolerancePPM, 500, "largest accepted rate error in ppm")
	f.Duration(config.OptionMinSpan, 10*time.Second, "host time before drift is judged")
	f.String(config.OptionMetricsAddr, "", "serve Prometheus metrics on this address")
	f.String(config.OptionVerbosity, "info", "log level: panic, fatal, error, warning, info, debug, trace")
}

func (c *command) initConfig(cmd *cobra.Command) error {
	if c.cfgFile != "" {
		c.config.SetConfigFile(c.cfgFile)
		c.config.SetConfigType("json")
		if err := c.config.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", c.cfgFile, err)
		}
	}

	c.config.SetEnvPrefix("tickmon")
	c.config.AutomaticEnv()
	c.config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	return c.config.BindPFlags(cmd.Flags())
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logrus.New()
	logger.SetLevel(cfg.Verbosity)
	logger.Formatter = &logrus.TextFormatter{FullTimestamp: true}

	m := monitor.New(monitor.Options{
		TolerancePPM: cfg.TolerancePPM,
		MinSpan:      cfg.MinSpan,
	}, logger)

	if cfg.MetricsAddr != "" {
		registry := prometheus.NewRegistry()
		registry.MustRegister(m.Metrics()...)
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.WithError(err).Error("metrics server")
			}
		}()
		defer srv.Close()
		logger.Infof("serving metrics on %s", cfg.MetricsAddr)
	}

	port, err := serial.Open(cfg.Serial())
	if err != nil {
		return err
	}
	defer port.Close()
	if err := port.Flush(); err != nil {
		logger.WithError(err).Warn("flush serial port")
	}

	// Closing the port unblocks a pending read on interrupt.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			port.Close()
		case <-done:
		}
	}()

	logger.Infof("monitoring %s (tolerance %.0f ppm)", cfg.Device, cfg.TolerancePPM)
	runErr := m.Run(ctx, port, cfg.Samples)

	s := m.Summary()
	fmt.Printf("\nsamples=%d malformed=%d backwards=%d drift_exceeded=%d last_drift=%.1fppm\n",
		s.Samples, s.Malformed, s.Backwards, s.DriftExceeded, s.LastDriftPPM)

	if runErr != nil && ctx.Err() == nil {
		return runErr
	}
	if !s.OK() {
		return errViolations
	}
	return nil
}
