package commands

import (
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/doxic/internal/config"
	"git.home.luguber.info/inful/doxic/internal/language"
)

// LanguagesCmd lists the registry that a run would use.
type LanguagesCmd struct {
	Languages string `short:"L" name:"languages" help:"Language registry file (JSON or YAML)." type:"path"`
}

func (l *LanguagesCmd) Run(global *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, config.Config{Languages: l.Languages})
	if err != nil {
		return err
	}
	reg, err := registryFor(cfg.Languages)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(global.out(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "KEY\tNAME\tLITERATE\tLINE\tBLOCK")
	for _, key := range reg.Keys() {
		d, _ := reg.Lookup(key)
		block := ""
		if d.CommentBlock != nil {
			block = d.CommentBlock.Start + " " + d.CommentBlock.End
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\n", key, d.Name, d.Literate, d.CommentLine, block)
	}
	return tw.Flush()
}

func registryFor(path string) (*language.Registry, error) {
	if path == "" {
		return language.Default()
	}
	return language.Load(path)
}
