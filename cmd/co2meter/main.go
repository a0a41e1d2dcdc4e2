// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// co2meter reads a USB CO2 monitor and serves the readings over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/vfilimonov/co2meter/co2mon"
	"github.com/vfilimonov/co2meter/internal/config"
	"github.com/vfilimonov/co2meter/internal/console"
	"github.com/vfilimonov/co2meter/internal/homekit"
	"github.com/vfilimonov/co2meter/internal/influx"
	"github.com/vfilimonov/co2meter/internal/logbook"
	"github.com/vfilimonov/co2meter/internal/metrics"
	"github.com/vfilimonov/co2meter/internal/server"
	"github.com/vfilimonov/co2meter/internal/sink"
	"github.com/vfilimonov/co2meter/internal/store"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "co2meter:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath    = flag.StringP("config", "c", "", "path to the YAML configuration file")
		host          = flag.StringP("host", "H", "", "address to bind the HTTP server to")
		port          = flag.IntP("port", "P", 0, "port to bind the HTTP server to")
		interval      = flag.IntP("interval", "I", 0, "seconds between samples")
		devicePath    = flag.String("device-path", "", "HID path of the monitor to use")
		bypassDecrypt = flag.Bool("bypass-decrypt", false, "treat device frames as plaintext")
		once          = flag.Bool("once", false, "read one sample, print it and exit")
		watch         = flag.Bool("watch", false, "print every sample to the console")
		useHomekit    = flag.Bool("homekit", false, "expose the monitor to HomeKit")
		fahrenheit    = flag.Bool("fahrenheit", false, "display temperatures in °F")
		showVersion   = flag.BoolP("version", "v", false, "print the version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("co2meter", version)
		return nil
	}

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if flag.CommandLine.Changed("host") {
		cfg.Host = *host
	}
	if flag.CommandLine.Changed("port") {
		cfg.Port = *port
	}
	if flag.CommandLine.Changed("interval") {
		cfg.Interval = *interval
	}
	if flag.CommandLine.Changed("device-path") {
		cfg.Device.Path = *devicePath
	}
	if flag.CommandLine.Changed("bypass-decrypt") {
		cfg.Device.BypassDecrypt = *bypassDecrypt
	}
	if flag.CommandLine.Changed("homekit") {
		cfg.HomeKit.Enabled = *useHomekit
	}
	if flag.CommandLine.Changed("watch") {
		cfg.Display.Console = *watch
	}
	if flag.CommandLine.Changed("fahrenheit") {
		cfg.Display.Fahrenheit = *fahrenheit
	}

	log := setupLogger(cfg.Log)
	opts := &co2mon.Opts{Path: cfg.Device.Path, BypassDecrypt: cfg.Device.BypassDecrypt}

	if *once {
		return readOnce(opts)
	}
	return serve(cfg, opts, log)
}

func setupLogger(cfg config.Log) *logrus.Logger {
	log := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.Level); err == nil {
		log.SetLevel(lvl)
	}
	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}

// readOnce performs a single foreground measurement.
func readOnce(opts *co2mon.Opts) error {
	dev, err := co2mon.New(co2mon.System(), opts)
	if err != nil {
		return err
	}
	s, err := dev.ReadSample(50)
	if err != nil {
		return err
	}
	fmt.Println(s)
	return nil
}

func serve(cfg config.Config, opts *co2mon.Opts, log *logrus.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	book := logbook.New(cfg.LogDir, log)
	defer book.Close()
	if err := book.Consolidate(); err != nil {
		log.WithError(err).Warn("logbook consolidation failed")
	}

	metrics.Register()
	buf := &store.Buffer{}
	hub := server.NewHub(log)

	// The fanout must be complete before the monitor takes it.
	sinks := sink.Fanout{buf, book, metrics.Sink{}, hub}
	if cfg.Display.Console {
		sinks = append(sinks, console.New())
	}
	if cfg.Influx.URL != "" {
		w := influx.New(cfg.Influx)
		defer w.Close()
		sinks = append(sinks, w)
		log.WithField("url", cfg.Influx.URL).Info("influx export enabled")
	}

	// A missing device at startup is not fatal; the loop reconnects. The
	// pre-flight probe only feeds /info and the HomeKit identity.
	var devInfo co2mon.Info
	dev, err := co2mon.New(co2mon.System(), opts)
	if err != nil {
		log.WithError(err).Warn("device not found, waiting for it to appear")
	} else {
		devInfo = dev.Info()
		log.WithField("device", dev.String()).Info("device connected")
	}

	if cfg.HomeKit.Enabled {
		bridge, err := homekit.New(cfg.HomeKit, devInfo)
		if err != nil {
			return fmt.Errorf("homekit: %w", err)
		}
		sinks = append(sinks, bridge)
		go func() {
			if err := bridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("homekit server failed")
			}
		}()
		log.WithField("addr", cfg.HomeKit.Addr).Info("homekit bridge enabled")
	}

	mon := co2mon.NewMonitor(co2mon.System(), opts, sinks, log)
	if dev != nil {
		mon.Attach(dev)
	}
	mon.OnError = func(error) { metrics.DeviceErrors.Inc() }
	mon.Start(time.Duration(cfg.Interval) * time.Second)
	defer mon.Stop()

	srv := server.New(buf, book, mon, hub, server.Opts{Fahrenheit: cfg.Display.Fahrenheit}, log, cancel)
	httpSrv := &http.Server{Addr: cfg.Addr(), Handler: srv.Router()}

	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr()).Info("http server listening")
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, timeout := context.WithTimeout(context.Background(), 5*time.Second)
	defer timeout()
	return httpSrv.Shutdown(shutdownCtx)
}
