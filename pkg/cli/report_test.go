package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/devstudio-sec/devscan/pkg/domain/mock"
	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
)

func TestWriteReport(t *testing.T) {
	t.Run("findings are ordered by severity", func(t *testing.T) {
		env := model.NewSuccessEnvelope("scan completed", []model.Finding{
			{File: "b.py", Line: 9, RuleID: "info-rule", Severity: model.SeverityInfo, Message: "note"},
			{File: "a.py", Line: 0, RuleID: "error-rule", Severity: model.SeverityError, Message: "bad"},
		})
		env.Repository = "https://host/org/repo"
		env.Warnings = []string{"result[2] dropped: missing path"}

		var buf bytes.Buffer
		writeReport(&buf, env)
		out := buf.String()

		gt.True(t, strings.Contains(out, "scan completed: https://host/org/repo"))
		gt.True(t, strings.Index(out, "error-rule") < strings.Index(out, "info-rule"))
		gt.True(t, strings.Contains(out, "a.py:unknown"))
		gt.True(t, strings.Contains(out, "result[2] dropped"))
		gt.True(t, strings.Contains(out, "2 findings (error: 1, warning: 0, info: 1, unknown: 0)"))
	})

	t.Run("envelope findings are not reordered", func(t *testing.T) {
		env := model.NewSuccessEnvelope("scan completed", []model.Finding{
			{File: "b.py", Severity: model.SeverityInfo},
			{File: "a.py", Severity: model.SeverityError},
		})
		writeReport(&bytes.Buffer{}, env)
		gt.V(t, env.Findings[0].File).Equal("b.py")
	})

	t.Run("error envelope", func(t *testing.T) {
		var buf bytes.Buffer
		writeReport(&buf, model.NewErrorEnvelope("clone failed", "exit status 128"))
		gt.True(t, strings.Contains(buf.String(), "clone failed"))
		gt.True(t, strings.Contains(buf.String(), "exit status 128"))
	})
}

func TestRunScan(t *testing.T) {
	newUseCase := func(env *model.ResultEnvelope) *mock.UseCaseMock {
		return &mock.UseCaseMock{
			RunScanFunc: func(ctx context.Context, input *model.RunScanInput) *model.ResultEnvelope {
				gt.V(t, input.Credential).Equal(types.Credential("TOKEN"))
				return env
			},
		}
	}
	opts := scanOptions{repoURL: "https://host/org/repo", token: "TOKEN"}

	t.Run("json output is the envelope", func(t *testing.T) {
		var buf bytes.Buffer
		jsonOpts := opts
		jsonOpts.asJSON = true
		uc := newUseCase(model.NewSuccessEnvelope("scan completed", nil))

		gt.NoError(t, runScan(context.Background(), uc, &buf, jsonOpts))

		var decoded map[string]any
		gt.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		gt.V(t, decoded["status"]).Equal("success")
		gt.V(t, len(uc.RunScanCalls())).Equal(1)
	})

	t.Run("banner is printed before the report", func(t *testing.T) {
		var buf bytes.Buffer
		uc := newUseCase(model.NewSuccessEnvelope("scan completed", nil))
		gt.NoError(t, runScan(context.Background(), uc, &buf, opts))
		gt.True(t, strings.Contains(buf.String(), "$$$$$$$"))
		gt.True(t, strings.Contains(buf.String(), "0 findings"))
	})

	t.Run("error status is returned", func(t *testing.T) {
		var buf bytes.Buffer
		quiet := opts
		quiet.noBanner = true
		uc := newUseCase(model.NewErrorEnvelope("scan timed out", "semgrep did not finish"))

		err := runScan(context.Background(), uc, &buf, quiet)
		gt.True(t, errors.Is(err, ErrScanFailed))
		gt.False(t, strings.Contains(buf.String(), "$$$$$$$"))
	})
}

func TestLoadEnvFiles(t *testing.T) {
	t.Run("explicit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.env")
		gt.NoError(t, os.WriteFile(path, []byte("DEVSCAN_TEST_ENV_FILE=loaded\n"), 0600))
		t.Cleanup(func() { os.Unsetenv("DEVSCAN_TEST_ENV_FILE") })

		gt.NoError(t, loadEnvFiles([]string{path}))
		gt.V(t, os.Getenv("DEVSCAN_TEST_ENV_FILE")).Equal("loaded")
	})

	t.Run("existing variables win", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.env")
		gt.NoError(t, os.WriteFile(path, []byte("DEVSCAN_TEST_ENV_KEEP=file\n"), 0600))
		t.Setenv("DEVSCAN_TEST_ENV_KEEP", "process")

		gt.NoError(t, loadEnvFiles([]string{path}))
		gt.V(t, os.Getenv("DEVSCAN_TEST_ENV_KEEP")).Equal("process")
	})

	t.Run("missing explicit file fails", func(t *testing.T) {
		gt.Error(t, loadEnvFiles([]string{filepath.Join(t.TempDir(), "absent.env")}))
	})

	t.Run("missing default file is ignored", func(t *testing.T) {
		t.Chdir(t.TempDir())
		gt.NoError(t, loadEnvFiles(nil))
	})
}
