package cli

import (
	"context"
	"io"
	"os"

	"github.com/devstudio-sec/devscan/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// ConfigureLogging is exported for testing purposes
var ConfigureLogging = logging.Configure

type CLI struct {
	stdout io.Writer
}

type Option func(*CLI)

// WithStdout replaces the writer used for reports and JSON output.
func WithStdout(w io.Writer) Option {
	return func(x *CLI) {
		x.stdout = w
	}
}

func New(options ...Option) *CLI {
	x := &CLI{
		stdout: os.Stdout,
	}
	for _, opt := range options {
		opt(x)
	}
	return x
}

func (x *CLI) Run(argv []string) error {
	var (
		logLevel  string
		logFormat string
		logOutput string
		envFiles  []string
	)

	app := &cli.Command{
		Name:  "devscan",
		Usage: "Static analysis of remote git repositories with semgrep",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Log level [debug|info|warn|error]",
				Aliases:     []string{"l"},
				Sources:     cli.EnvVars("DEVSCAN_LOG_LEVEL"),
				Destination: &logLevel,
				Value:       "info",
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "Log format [text|json]",
				Aliases:     []string{"f"},
				Sources:     cli.EnvVars("DEVSCAN_LOG_FORMAT"),
				Destination: &logFormat,
				Value:       "text",
			},
			&cli.StringFlag{
				Name:        "log-output",
				Usage:       "Log output [-|stdout|stderr|<file>]",
				Aliases:     []string{"o"},
				Sources:     cli.EnvVars("DEVSCAN_LOG_OUTPUT"),
				Destination: &logOutput,
				Value:       "stderr",
			},
			&cli.StringSliceFlag{
				Name:        "env-file",
				Usage:       "Load environment variables from the file before reading other settings",
				Sources:     cli.EnvVars("DEVSCAN_ENV_FILE"),
				Destination: &envFiles,
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			scanCommand(x.stdout),
			clientCommand(x.stdout),
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := ConfigureLogging(logFormat, logLevel, logOutput); err != nil {
				return ctx, err
			}
			if err := loadEnvFiles(envFiles); err != nil {
				return ctx, err
			}
			return ctx, nil
		},
	}

	if err := app.Run(context.Background(), argv); err != nil {
		logging.Default().Error("fatal error", "error", err)
		return err
	}

	return nil
}
