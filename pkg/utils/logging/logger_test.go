package logging_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/utils/logging"
)

func TestConfigure(t *testing.T) {
	t.Run("configure with json format to stdout", func(t *testing.T) {
		gt.NoError(t, logging.Configure("json", "info", "stdout"))
	})

	t.Run("configure with text format", func(t *testing.T) {
		gt.NoError(t, logging.Configure("text", "debug", "stderr"))
	})

	t.Run("configure with invalid format returns error", func(t *testing.T) {
		gt.Error(t, logging.Configure("invalid", "info", "stdout"))
	})

	t.Run("configure with invalid level returns error", func(t *testing.T) {
		gt.Error(t, logging.Configure("json", "invalid", "stdout"))
	})
}

func TestCredentialIsMasked(t *testing.T) {
	var buf bytes.Buffer
	logger := gt.R1(logging.New(&buf, "json", slog.LevelInfo)).NoError(t)

	type request struct {
		RepoURL     string
		AccessToken string
	}

	logger.Info("scan requested",
		"credential", types.Credential("ghp_secret_credential"),
		"token", types.GitHubToken("ghp_secret_token"),
		"request", request{RepoURL: "https://host/org/repo", AccessToken: "ghp_secret_field"},
	)

	out := buf.String()
	gt.True(t, strings.Contains(out, "scan requested"))
	gt.True(t, strings.Contains(out, "https://host/org/repo"))
	gt.False(t, strings.Contains(out, "ghp_secret_credential"))
	gt.False(t, strings.Contains(out, "ghp_secret_token"))
	gt.False(t, strings.Contains(out, "ghp_secret_field"))
}

func TestDefault(t *testing.T) {
	logging.Default().Info("test message", "key", "value")
}
