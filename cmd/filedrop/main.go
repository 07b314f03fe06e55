package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"filedrop/internal/cli"
	"filedrop/internal/client"
	"filedrop/internal/config"
	"filedrop/internal/notify"
	"filedrop/internal/view"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	opts := cli.Options{
		In:     os.Stdin,
		Out:    os.Stdout,
		Color:  tty,
		Logger: logger,
	}
	if !tty {
		// Piped output stays machine readable; notifications go to the log.
		opts.Notifier = notify.NewLogNotifier(logger)
		opts.Opener = view.PrintOpener{W: os.Stdout}
	}

	api := client.New(cfg.Client.ServerURL, &http.Client{})
	app := cli.NewApp(api, opts)
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		logger.WithError(err).Error("filedrop failed")
		os.Exit(1)
	}
}
