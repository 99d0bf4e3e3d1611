package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/sadhana/internal/cli"
	"github.com/julianstephens/sadhana/internal/keyring"
	"github.com/julianstephens/sadhana/internal/storage/postgres"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a credential in the OS keyring."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove a credential from the OS keyring."`
	Status KeyringStatusCmd `cmd:"" help:"Show which credentials are stored." default:"1"`
}

func account(redis bool) string {
	if redis {
		return keyring.AccountRedis
	}
	return keyring.AccountPostgres
}

type KeyringSetCmd struct {
	Value string `arg:"" optional:"" help:"Connection string (or Redis password with --redis). Prompted for when omitted."`
	Redis bool   `help:"Store the Redis password instead of the PostgreSQL connection string."`
}

func (c *KeyringSetCmd) Run(ctx *cli.Context) error {
	value := c.Value
	if value == "" {
		title := "PostgreSQL connection string (no password)"
		if c.Redis {
			title = "Redis password"
		}
		var err error
		if value, err = ctx.Secret(title); err != nil {
			return err
		}
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return errors.New("nothing to store")
	}

	if !c.Redis {
		if err := postgres.ValidateConnString(value); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("%w: keep the password in ~/.pgpass or PGPASSWORD", err)
			}
			return err
		}
	}

	if err := keyring.Set(account(c.Redis), value); err != nil {
		return err
	}
	ctx.Println(cli.Success("Stored " + account(c.Redis) + " in the OS keyring"))
	return nil
}

type KeyringDeleteCmd struct {
	Redis bool `help:"Delete the Redis password instead of the PostgreSQL connection string."`
}

func (c *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	err := keyring.Delete(account(c.Redis))
	if errors.Is(err, keyring.ErrNotFound) {
		ctx.Println(cli.Warning("Nothing stored for " + account(c.Redis)))
		return nil
	}
	if err != nil {
		return err
	}
	ctx.Println(cli.Success("Removed " + account(c.Redis) + " from the OS keyring"))
	return nil
}

type KeyringStatusCmd struct{}

func (c *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println(cli.Warning(keyring.ErrKeyringUnavailable.Error()))
		return nil
	}
	for _, acct := range []string{keyring.AccountPostgres, keyring.AccountRedis} {
		_, err := keyring.Get(acct)
		switch {
		case err == nil:
			ctx.Printf("  %-20s %s\n", acct, cli.SuccessStyle.Render("stored"))
		case errors.Is(err, keyring.ErrNotFound):
			ctx.Printf("  %-20s %s\n", acct, cli.MutedStyle.Render("not set"))
		default:
			ctx.Printf("  %-20s %s\n", acct, cli.ErrorStyle.Render(err.Error()))
		}
	}
	return nil
}
