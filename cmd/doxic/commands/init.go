package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/doxic/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite an existing project file."`
	Output string `short:"o" name:"output" help:"Directory to write doxic.yaml into instead of --config."`
}

func (i *InitCmd) Run(global *Global, root *CLI) error {
	path := root.Config
	if i.Output != "" {
		path = filepath.Join(i.Output, config.DefaultPath)
	}
	out := global.out()
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", path)
	if err := config.Init(path, i.Force); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "initialized successfully")
	return nil
}
