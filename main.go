package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soar/ps3arcade/frontend"
	"github.com/soar/ps3arcade/internal/config"
	"github.com/soar/ps3arcade/internal/console"
	"github.com/soar/ps3arcade/internal/gamepad"
	"github.com/soar/ps3arcade/internal/hub"
	"github.com/soar/ps3arcade/internal/logger"
	"github.com/soar/ps3arcade/internal/metrics"
	"github.com/soar/ps3arcade/internal/panel"
	"github.com/soar/ps3arcade/internal/ps3"
	"github.com/soar/ps3arcade/internal/sdlpad"
	"github.com/soar/ps3arcade/internal/server"
	"github.com/soar/ps3arcade/internal/tray"
	"github.com/spf13/pflag"
)

// Cross-platform signal handling: use os.Interrupt on all platforms
// On Windows: os.Interrupt is sent when Ctrl+C is pressed
// On Unix: os.Interrupt is equivalent to syscall.SIGINT
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	flags := config.Flags(os.Args[0])
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	conf, err := config.Load(flags)
	if err != nil {
		logger.New(false, false).Fatal().Err(err).Msg("config")
	}

	log := logger.New(conf.Debug, conf.NoColor)
	if conf.File != "" {
		log.Info().Str("file", conf.File).Msg("config loaded")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)
	consoleCh, registerConsole := console.SetupConsoleHandler()

	pad := gamepad.NewPad()
	translator, err := ps3.NewWithSensitivity(pad, conf.Sensitivity)
	if err != nil {
		log.Fatal().Err(err).Uint8("sensitivity", conf.Sensitivity).Msg("translator")
	}

	m := metrics.New()
	scanner := panel.New(translator, pad, m, log)

	reader := sdlpad.NewReader(pad, conf.PollInterval, log)
	// SDL replaces console handlers during init
	reader.OnInit(registerConsole)
	reader.OnTick(scanner.Scan)

	identity := hub.Identity{
		VendorID:    translator.VendorID(),
		ProductID:   translator.ProductID(),
		Sensitivity: translator.Sensitivity(),
	}

	h := hub.NewHub(m, log)
	go h.Run(ctx.Done())

	broadcaster := hub.NewBroadcaster(h, scanner.Changes(), scanner.Clicks(), identity, conf.FullSyncInterval, m, log)
	go broadcaster.Run(ctx.Done())

	opts := server.Options{
		Addr:        conf.Listen,
		Hub:         h,
		Broadcaster: broadcaster,
		State:       scanner,
		Identity:    identity,
		FrontendFS:  frontend.FS,
		Log:         log,
	}
	if conf.Metrics {
		opts.Metrics = m
	}
	srv := server.New(opts)
	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	url := conf.URL()
	log.Info().Str("url", url).Uint8("sensitivity", conf.Sensitivity).Msg("PS3 arcade panel started")

	// Channel for tray-triggered shutdown
	shutdownRequested := make(chan struct{})

	var t *tray.Tray
	// Started from Explorer there is no console to press Ctrl+C in
	if conf.Tray || !console.IsRunningFromConsole() {
		t = tray.New(url, func() { close(shutdownRequested) }, log)
		go t.Run(tray.Icon())
	} else {
		log.Info().Msg("press Ctrl+C to exit")
	}

	// The reader locks its own OS thread for SDL and runs the scanner after every poll
	readerDone := make(chan error, 1)
	go func() {
		readerDone <- reader.Run(ctx)
	}()

	var readerErr error
	readerStopped := false
	select {
	case <-sigCh:
		log.Info().Msg("shutting down")
	case <-consoleCh:
		log.Info().Msg("shutting down from console")
	case <-shutdownRequested:
		log.Info().Msg("shutdown requested from tray")
	case err := <-serverErrCh:
		log.Error().Err(err).Msg("HTTP server error")
	case readerErr = <-readerDone:
		readerStopped = true
	}
	cancel()

	if !readerStopped {
		readerErr = <-readerDone
	}
	if readerErr != nil {
		log.Error().Err(readerErr).Msg("controller reader stopped")
	}
	if t != nil {
		t.Quit()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown")
	}

	log.Info().Msg("PS3 arcade panel stopped")
}
