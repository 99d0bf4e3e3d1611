package system

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/julianstephens/sadhana/internal/cli"
	"github.com/julianstephens/sadhana/internal/config"
)

type InitCmd struct {
	NoConfig bool `help:"Do not write a config file."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if !c.NoConfig {
		path, err := config.ResolvePath(ctx.ConfigPath)
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if _, err := config.InitFile(path); err != nil {
				return err
			}
			ctx.Println(cli.Success("Wrote config: " + path))
		} else {
			ctx.Println(cli.MutedStyle.Render("Using existing config: " + path))
		}
	}

	if err := ctx.Backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize %s storage: %w", ctx.Config.Storage.Backend, err)
	}
	ctx.Println(cli.Success(fmt.Sprintf("Initialized %s storage at: %s", ctx.Config.Storage.Backend, ctx.Backend.GetConfigPath())))
	return nil
}
