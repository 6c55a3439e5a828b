package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/client/client"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/opsapi"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/auth"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
	"github.com/spf13/cobra"
)

const envSigningSecret = "SHIFTLY_SECRET_KEY"

func (a *App) pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd.Context(), func(ctx context.Context, c *client.GRPCClient) (any, error) {
				return c.Ping(ctx, &opsapi.PingRequest{})
			})
		},
	}
}

// tokenCmd mints an access token locally with the server's signing secret.
func (a *App) tokenCmd() *cobra.Command {
	var dealerID string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for a dealer",
		Long: `Mint an access token for a dealer.

The signing secret is read from SHIFTLY_SECRET_KEY or prompted for.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := []byte(os.Getenv(envSigningSecret))
			if len(secret) == 0 {
				var err error
				secret, err = GetSecret(cmd.ErrOrStderr(), "signing secret")
				if err != nil {
					return err
				}
			}
			defer common.WipeByteArray(secret)

			token, err := auth.GenerateToken(dealerID, secret, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, token)
			return err
		},
	}
	cmd.Flags().StringVar(&dealerID, "dealer", "", "dealer id the token acts for")
	cmd.Flags().DurationVar(&ttl, "ttl", 15*time.Minute, "token lifetime")
	_ = cmd.MarkFlagRequired("dealer")
	return cmd
}

func (a *App) connectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "connections",
		Aliases: []string{"conn"},
		Short:   "Manage provider connections",
	}

	var provider string
	var creds []string
	create := &cobra.Command{
		Use:   "create",
		Short: "Store a new provider connection",
		Long: `Store a new provider connection.

Each --cred is either name=value or a bare name, which is prompted for
without echo. Examples:
  shiftlyctl connections create --provider cazoo --cred apiKey
  shiftlyctl connections create --provider mock --cred region=uk`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := collectCredentials(cmd.ErrOrStderr(), creds)
			if err != nil {
				return err
			}
			return a.call(cmd.Context(), func(ctx context.Context, c *client.GRPCClient) (any, error) {
				return c.CreateConnection(ctx, &opsapi.CreateConnectionRequest{
					ProviderType: models.ProviderType(provider),
					Credentials:  values,
				})
			})
		},
	}
	create.Flags().StringVar(&provider, "provider", "", "provider type (mock, cazoo, autotrader)")
	create.Flags().StringArrayVar(&creds, "cred", nil, "credential name or name=value (repeatable)")
	_ = create.MarkFlagRequired("provider")

	list := &cobra.Command{
		Use:   "list",
		Short: "List the dealer's connections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd.Context(), func(ctx context.Context, c *client.GRPCClient) (any, error) {
				return c.ListConnections(ctx, &opsapi.ListConnectionsRequest{})
			})
		},
	}

	revoke := &cobra.Command{
		Use:   "revoke <connection-id>",
		Short: "Revoke a connection and destroy its credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd.Context(), func(ctx context.Context, c *client.GRPCClient) (any, error) {
				return c.RevokeConnection(ctx, &opsapi.RevokeConnectionRequest{ConnectionID: args[0]})
			})
		},
	}

	sync := &cobra.Command{
		Use:   "sync <connection-id>",
		Short: "Pull the provider feed into inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd.Context(), func(ctx context.Context, c *client.GRPCClient) (any, error) {
				return c.SyncConnection(ctx, &opsapi.SyncConnectionRequest{ConnectionID: args[0]})
			})
		},
	}

	var limit int
	logs := &cobra.Command{
		Use:   "logs [connection-id]",
		Short: "Show recent sync logs, for one connection or all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &opsapi.ListSyncLogsRequest{Limit: limit}
			if len(args) == 1 {
				req.ConnectionID = args[0]
			}
			return a.call(cmd.Context(), func(ctx context.Context, c *client.GRPCClient) (any, error) {
				return c.ListSyncLogs(ctx, req)
			})
		},
	}
	logs.Flags().IntVar(&limit, "limit", 0, "maximum number of logs (server default when 0)")

	cmd.AddCommand(create, list, revoke, sync, logs)
	return cmd
}

func (a *App) postsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Schedule and inspect marketplace posts",
	}

	var req opsapi.SchedulePostRequest
	var platform, at string
	schedule := &cobra.Command{
		Use:   "schedule <vehicle-id>",
		Short: "Schedule a post (tomorrow 09:00 unless told otherwise)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.VehicleID = args[0]
			req.Platform = models.Platform(platform)
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("%w: --at must be RFC 3339", common.ErrInvalidInput)
				}
				req.SpecificTime = &t
			}
			return a.call(cmd.Context(), func(ctx context.Context, c *client.GRPCClient) (any, error) {
				return c.SchedulePost(ctx, &req)
			})
		},
	}
	f := schedule.Flags()
	f.StringVar(&platform, "platform", string(models.PlatformFacebook), "facebook or craigslist")
	f.StringVar(&req.ListingID, "listing", "", "listing id to post")
	f.StringVar(&req.ConnectionID, "connection", "", "connection holding the platform credentials")
	f.StringVar(&at, "at", "", "post at this RFC 3339 time")
	f.BoolVar(&req.OptimalTiming, "optimal", false, "post at the next Thursday 09:00")
	f.BoolVar(&req.ImmediatelyPost, "now", false, "post immediately")
	f.IntVar(&req.EveryNDays, "every", 0, "schedule four posts this many days apart")
	_ = schedule.MarkFlagRequired("connection")

	list := &cobra.Command{
		Use:   "list",
		Short: "List posts still waiting for their time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd.Context(), func(ctx context.Context, c *client.GRPCClient) (any, error) {
				return c.ListScheduledPosts(ctx, &opsapi.ListScheduledPostsRequest{})
			})
		},
	}

	cancel := &cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Cancel a scheduled post that has not started",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd.Context(), func(ctx context.Context, c *client.GRPCClient) (any, error) {
				return c.CancelJob(ctx, &opsapi.CancelJobRequest{JobID: args[0]})
			})
		},
	}

	cmd.AddCommand(schedule, list, cancel)
	return cmd
}

func (a *App) jobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect background jobs",
	}

	status := &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show a job's state, attempts and failure reason",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd.Context(), func(ctx context.Context, c *client.GRPCClient) (any, error) {
				return c.GetJobStatus(ctx, &opsapi.GetJobStatusRequest{JobID: args[0]})
			})
		},
	}

	cmd.AddCommand(status)
	return cmd
}
