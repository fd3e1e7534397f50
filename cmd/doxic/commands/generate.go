package commands

import (
	"context"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/doxic/internal/config"
)

// GenerateCmd implements the default 'generate' command.
type GenerateCmd struct {
	BuildFlags `embed:""`
}

func (g *GenerateCmd) Run(global *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunGenerate(ctx, global, root.Config, g.config())
}

// RunGenerate performs a single generation pass for the project file at
// configPath overlaid with flags.
func RunGenerate(ctx context.Context, global *Global, configPath string, flags config.Config) error {
	cfg, err := loadConfig(configPath, flags)
	if err != nil {
		return err
	}
	r, err := newRunner(global, cfg)
	if err != nil {
		return err
	}
	_, err = r.run(ctx, global.out())
	return err
}
