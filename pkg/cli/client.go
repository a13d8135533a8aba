package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/infra/apiclient"
)

const defaultServerURL = "http://127.0.0.1:8000"

func clientCommand(stdout io.Writer) *cli.Command {
	var (
		serverURL string
		token     string
		repoURL   string
		text      string
		id        string
		asJSON    bool
	)

	newClient := func() (*apiclient.Client, error) {
		return apiclient.New(serverURL)
	}

	tokenFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:        "token",
			Aliases:     []string{"t"},
			Usage:       "Access token of the repository owner",
			Required:    true,
			Sources:     cli.EnvVars("DEVSCAN_TOKEN"),
			Destination: &token,
		}
	}
	repoFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:        "repo",
			Aliases:     []string{"r"},
			Usage:       "https URL of the repository",
			Required:    true,
			Destination: &repoURL,
		}
	}

	return &cli.Command{
		Name:    "client",
		Aliases: []string{"c"},
		Usage:   "Call a running devscan server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "server",
				Usage:       "Base URL of the devscan server",
				Value:       defaultServerURL,
				Sources:     cli.EnvVars("DEVSCAN_SERVER_URL"),
				Destination: &serverURL,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "Print server responses as JSON",
				Destination: &asJSON,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if !asJSON {
				printBanner(stdout)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "scan-repo",
				Usage: "Ask the server to scan a repository",
				Flags: []cli.Flag{repoFlag(), tokenFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					client, err := newClient()
					if err != nil {
						return err
					}
					env, err := client.Scan(ctx, repoURL, types.Credential(token))
					if err != nil {
						return err
					}

					if asJSON {
						if err := writeJSON(stdout, env); err != nil {
							return err
						}
					} else {
						writeReport(stdout, env)
					}

					if !env.Succeeded() {
						return goerr.Wrap(ErrScanFailed, env.Message, goerr.V("job_id", env.JobID))
					}
					return nil
				},
			},
			{
				Name:  "push-notif",
				Usage: "Store a notification for a repository",
				Flags: []cli.Flag{repoFlag(), tokenFlag(),
					&cli.StringFlag{
						Name:        "notification",
						Aliases:     []string{"n"},
						Usage:       "Notification text",
						Required:    true,
						Destination: &text,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					client, err := newClient()
					if err != nil {
						return err
					}
					n, err := client.PushNotification(ctx, repoURL, types.Credential(token), text)
					if err != nil {
						return err
					}
					if asJSON {
						return writeJSON(stdout, n)
					}
					_, _ = okColor.Fprintf(stdout, " [-] notification stored: %s\n", n.ID)
					return nil
				},
			},
			{
				Name:  "get-notif",
				Usage: "List notifications stored for a token, newest first",
				Flags: []cli.Flag{tokenFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					client, err := newClient()
					if err != nil {
						return err
					}
					notifications, err := client.GetNotifications(ctx, types.Credential(token))
					if err != nil {
						return err
					}
					if asJSON {
						return writeJSON(stdout, notifications)
					}

					if len(notifications) == 0 {
						fmt.Fprintln(stdout, " [-] no notifications")
						return nil
					}
					for _, n := range notifications {
						_, _ = dimColor.Fprintf(stdout, " %s %s\n", n.CreatedAt.Format("2006-01-02 15:04:05"), n.ID)
						fmt.Fprintf(stdout, "   %s\n   %s\n", n.RepositoryURL, n.Text)
					}
					return nil
				},
			},
			{
				Name:  "del-notif",
				Usage: "Delete a notification",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "id",
						Usage:       "Notification ID",
						Required:    true,
						Destination: &id,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					client, err := newClient()
					if err != nil {
						return err
					}
					if err := client.DeleteNotification(ctx, types.NotificationID(id)); err != nil {
						return err
					}
					_, _ = okColor.Fprintf(stdout, " [-] notification deleted: %s\n", id)
					return nil
				},
			},
		},
	}
}
