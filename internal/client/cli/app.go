// Package cli implements shiftlyctl, the operator CLI for the Shiftly ops
// service.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/client/client"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/client/config"
	"github.com/spf13/cobra"
)

// dialFunc opens a client for cfg. Tests replace it with an in-memory dialer.
type dialFunc func(cfg *config.Config) (*client.GRPCClient, error)

func defaultDial(cfg *config.Config) (*client.GRPCClient, error) {
	return client.NewGRPCClient(cfg.ServerEndpointAddr, cfg.AccessToken)
}

type App struct {
	config *config.Config
	dial   dialFunc
	in     io.Reader
	out    io.Writer

	configPath string
	addr       string
	token      string
}

func NewApp(in io.Reader, out io.Writer) *App {
	return &App{dial: defaultDial, in: in, out: out}
}

// load resolves the configuration once flags are parsed.
func (a *App) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.ServerEndpointAddr = a.addr
	}
	if cmd.Flags().Changed("token") {
		cfg.AccessToken = a.token
	}
	a.config = cfg
	return nil
}

// call dials, applies the request timeout and prints what fn returns.
func (a *App) call(ctx context.Context, fn func(ctx context.Context, c *client.GRPCClient) (any, error)) error {
	c, err := a.dial(a.config)
	if err != nil {
		return fmt.Errorf("connect %s: %w", a.config.ServerEndpointAddr, err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	resp, err := fn(ctx, c)
	if err != nil {
		return err
	}
	return a.print(resp)
}

func (a *App) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Run executes args and returns the first error.
func (a *App) Run(ctx context.Context, args []string) error {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	return root.ExecuteContext(ctx)
}
