package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/devstudio-sec/devscan/pkg/domain/types"
)

// GitHub enables the push webhook. Repositories announced by GitHub are cloned
// with token.
type GitHub struct {
	token  types.GitHubToken         `masq:"secret"`
	secret types.GitHubWebhookSecret `masq:"secret"`
}

func (x *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "Token used to clone repositories of push webhooks (optional)",
			Category:    "GitHub",
			Destination: (*string)(&x.token),
			Sources:     cli.EnvVars("DEVSCAN_GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "GitHub webhook secret",
			Category:    "GitHub",
			Destination: (*string)(&x.secret),
			Sources:     cli.EnvVars("DEVSCAN_GITHUB_WEBHOOK_SECRET"),
		},
	}
}

func (x GitHub) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("Token.len", len(x.token)),
		slog.Int("Secret.len", len(x.secret)),
	)
}

func (x GitHub) Token() types.GitHubToken {
	return x.token
}

func (x GitHub) Secret() types.GitHubWebhookSecret {
	return x.secret
}
