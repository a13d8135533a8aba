package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/devstudio-sec/devscan/pkg/cli"
	"github.com/devstudio-sec/devscan/pkg/controller/server"
	"github.com/devstudio-sec/devscan/pkg/domain/mock"
	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/devstudio-sec/devscan/pkg/infra"
	"github.com/devstudio-sec/devscan/pkg/repository/memory"
	"github.com/devstudio-sec/devscan/pkg/usecase"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	argv := append([]string{"devscan", "--log-level", "error"}, args...)
	err := cli.New(cli.WithStdout(&out)).Run(argv)
	return out.String(), err
}

func TestClientNotifications(t *testing.T) {
	uc := usecase.New(infra.New(infra.WithNotificationRepository(memory.New())))
	ts := httptest.NewServer(server.New(uc).Mux())
	defer ts.Close()

	out, err := run(t, "client", "--server", ts.URL, "--json",
		"push-notif", "--repo", "https://host/org/repo", "--token", "TOKEN", "--notification", "hello",
	)
	gt.NoError(t, err)

	var pushed model.Notification
	gt.NoError(t, json.Unmarshal([]byte(out), &pushed))
	gt.V(t, pushed.Text).Equal("hello")
	gt.V(t, pushed.ID).NotEqual("")

	out, err = run(t, "client", "--server", ts.URL, "--json", "get-notif", "--token", "TOKEN")
	gt.NoError(t, err)
	var listed []*model.Notification
	gt.NoError(t, json.Unmarshal([]byte(out), &listed))
	gt.V(t, len(listed)).Equal(1)
	gt.V(t, listed[0].ID).Equal(pushed.ID)
	gt.False(t, strings.Contains(out, "TOKEN"))

	out, err = run(t, "client", "--server", ts.URL, "get-notif", "--token", "OTHER")
	gt.NoError(t, err)
	gt.True(t, strings.Contains(out, "no notifications"))

	out, err = run(t, "client", "--server", ts.URL, "del-notif", "--id", string(pushed.ID))
	gt.NoError(t, err)
	gt.True(t, strings.Contains(out, string(pushed.ID)))

	_, err = run(t, "client", "--server", ts.URL, "del-notif", "--id", string(pushed.ID))
	gt.Error(t, err)
}

func TestClientScan(t *testing.T) {
	uc := &mock.UseCaseMock{
		RunScanFunc: func(ctx context.Context, input *model.RunScanInput) *model.ResultEnvelope {
			if strings.HasPrefix(input.RepositoryURL, "ftp://") {
				return model.NewErrorEnvelope("unsupported scheme", "repository URL must use https")
			}
			return model.NewSuccessEnvelope("scan completed", []model.Finding{
				{File: "app.py", Line: 3, RuleID: "python.eval", Severity: model.SeverityError, Message: "eval is dangerous"},
			})
		},
	}
	ts := httptest.NewServer(server.New(uc).Mux())
	defer ts.Close()

	t.Run("findings are reported", func(t *testing.T) {
		out, err := run(t, "client", "--server", ts.URL,
			"scan-repo", "--repo", "https://host/org/repo", "--token", "TOKEN",
		)
		gt.NoError(t, err)
		gt.True(t, strings.Contains(out, "app.py:3"))
		gt.True(t, strings.Contains(out, "python.eval"))
		gt.True(t, strings.Contains(out, "1 findings (error: 1"))
	})

	t.Run("error envelope exits with error", func(t *testing.T) {
		out, err := run(t, "client", "--server", ts.URL,
			"scan-repo", "--repo", "ftp://host/repo", "--token", "TOKEN",
		)
		gt.True(t, errors.Is(err, cli.ErrScanFailed))
		gt.True(t, strings.Contains(out, "unsupported scheme"))
	})
}

func TestScanCommandRequiresRepository(t *testing.T) {
	_, err := run(t, "scan", "--token", "TOKEN")
	gt.Error(t, err)
}

func TestUnreachableServer(t *testing.T) {
	_, err := run(t, "client", "--server", "http://127.0.0.1:1", "get-notif", "--token", "TOKEN")
	gt.Error(t, err)
}
