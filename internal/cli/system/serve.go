package system

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/sadhana/internal/api"
	"github.com/julianstephens/sadhana/internal/cli"
)

type ServeCmd struct {
	Addr string `help:"Listen address. Defaults to server.addr from the config."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	addr := c.Addr
	if addr == "" {
		addr = ctx.Config.Server.Addr
	}

	if err := ctx.Lock(); err != nil {
		return err
	}
	defer ctx.Unlock()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(sigCtx, ctx, ln)
}

// serve runs the API for ctx's store on ln until runCtx is done.
func serve(runCtx context.Context, ctx *cli.Context, ln net.Listener) error {
	h := api.NewHandler(ctx.Store)
	h.Catalog = ctx.Catalog
	h.Validator = ctx.Validator
	h.Now = ctx.Now
	h.Location = ctx.Location
	h.TopN = ctx.TopN(0)

	router := api.NewRouter(h, api.Options{AllowedOrigins: ctx.Config.Server.AllowedOrigins})
	ctx.Println(cli.Success("Serving on http://" + ln.Addr().String()))
	return api.Serve(runCtx, ln, router)
}
