package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/soar/analogdpad/internal/config"
	"github.com/soar/analogdpad/internal/dpad"
	"github.com/soar/analogdpad/internal/gamepad/joystick"
	"github.com/soar/analogdpad/internal/hub"
	"github.com/soar/analogdpad/internal/server"
	"github.com/soar/analogdpad/internal/tray"
)

// Cross-platform signal handling: use os.Interrupt on all platforms
// On Windows: os.Interrupt is sent when Ctrl+C is pressed
// On Unix: os.Interrupt is equivalent to syscall.SIGINT
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	fs := pflag.NewFlagSet("analogdpad", pflag.ExitOnError)
	config.Flags(fs)
	printConfig := fs.Bool("print-config", false, "print the effective config as YAML and exit")
	_ = fs.Parse(os.Args[1:])

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	loader, err := config.NewLoader(fs)
	if err != nil {
		log.Fatal(err)
	}
	cfg, err := loader.Load()
	if err != nil {
		log.Fatal(err)
	}
	setLogLevel(cfg.Log.Level)

	if *printConfig {
		out, err := config.Dump(cfg)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(string(out))
		return
	}

	classifier, err := cfg.Dpad.Classifier()
	if err != nil {
		log.Fatal(err)
	}

	// Create cancellable context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Channel to wait for reader completion
	readerDone := make(chan struct{})

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)

	reader := joystick.NewReader(classifier, dpad.NewMapper())

	// Create and start hub
	h := hub.NewHub()
	go h.Run()

	// Create broadcaster
	broadcaster := hub.NewBroadcaster(h, reader.Changes())
	go broadcaster.Run()

	apply := func(c dpad.Config) {
		reader.Reconfigure(c)
		broadcaster.BroadcastConfig(c)
	}
	loader.Watch(func(c *config.Config) {
		setLogLevel(c.Log.Level)
		next, err := c.Dpad.Classifier()
		if err != nil {
			log.Errorf("Ignoring config change: %v", err)
			return
		}
		apply(next)
	})

	// Create and start HTTP server
	frontend, err := overlayFS()
	if err != nil {
		log.Fatal(err)
	}
	srv := server.New(h, broadcaster, reader, frontend, cfg.Server.Addr)
	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	url := overlayURL(cfg.Server.Addr)
	log.WithFields(log.Fields{
		"url":      url,
		"strategy": describe(classifier),
	}).Info("AnalogDpad started")

	// Channel for tray-triggered shutdown
	shutdownRequested := make(chan struct{})

	// Initialize system tray on Windows only
	if runtime.GOOS == "windows" {
		go func() {
			t := tray.New(tray.Options{
				URL:     url,
				Enabled: classifier.Enabled,
				OnToggle: func(enabled bool) {
					c := reader.ClassifierConfig()
					c.Enabled = enabled
					apply(c)
				},
				OnExit: func() {
					close(shutdownRequested)
				},
			})
			t.Run(tray.GetIcon())
		}()
	} else {
		log.Info("Press Ctrl+C to exit")
	}

	// reader.Run locks its goroutine to the OS thread for SDL
	go func() {
		reader.Run(ctx)
		close(readerDone)
	}()

	// Wait for shutdown signal, tray request, or server error
	select {
	case <-sigCh:
		log.Info("Shutting down...")
		cancel()
	case <-shutdownRequested:
		log.Info("Shutdown requested from tray")
		cancel()
	case err := <-serverErrCh:
		log.Errorf("HTTP server error: %v", err)
		cancel()
	}

	// Wait for reader to finish
	<-readerDone

	// Shutdown the HTTP server gracefully
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}

	log.Info("AnalogDpad stopped")
}

func setLogLevel(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown log level %q, keeping %s", level, log.GetLevel())
		return
	}
	log.SetLevel(lvl)
}

// overlayURL turns a listen address into something a browser can open.
func overlayURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

func describe(c dpad.Config) string {
	if !c.Enabled {
		return "disabled"
	}
	return fmt.Sprintf("%s/%s/%s", c.Source, c.Mode, c.Algorithm)
}
