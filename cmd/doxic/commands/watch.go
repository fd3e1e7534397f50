package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/doxic/internal/watch"
)

// WatchCmd regenerates the documentation whenever a source changes.
type WatchCmd struct {
	BuildFlags `embed:""`
	Delay      time.Duration `name:"delay" default:"300ms" help:"Quiet period after the last change before regenerating."`
}

func (w *WatchCmd) Run(global *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(root.Config, w.config())
	if err != nil {
		return err
	}
	r, err := newRunner(global, cfg)
	if err != nil {
		return err
	}

	logger := global.logger()
	watcher := watch.New(watch.Options{
		Patterns: cfg.Sources,
		Extra:    []string{cfg.Template, cfg.CSS, cfg.Languages},
		Exclude:  []string{cfg.Output},
		Delay:    w.Delay,
		Logger:   logger,
	})

	logger.Info("Watching sources", slog.Any("sources", cfg.Sources), slog.String("output", cfg.Output))
	err = watcher.Run(ctx, func(ctx context.Context) error {
		_, err := r.run(ctx, global.out())
		return err
	})
	logger.Info("Watch stopped")
	return err
}
