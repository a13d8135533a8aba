package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"

	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/infra/git"
	"github.com/devstudio-sec/devscan/pkg/utils/errutil"
	"github.com/devstudio-sec/devscan/pkg/utils/logging"
)

const (
	MsgScanCompleted = "scan completed"
	MsgInternalError = "internal error"
)

var envelopeMessages = []struct {
	err     error
	message string
}{
	{types.ErrInvalidInput, "invalid input"},
	{types.ErrUnsupportedScheme, "unsupported scheme"},
	{types.ErrWorkspace, "workspace preparation failed"},
	{types.ErrFetch, "repository fetch failed"},
	{types.ErrScanTimeout, "scan timed out"},
	{types.ErrScanProcess, "scan process failed"},
	{types.ErrMalformedOutput, "malformed scanner output"},
	{types.ErrCancelled, "scan cancelled"},
}

// EnvelopeMessage returns the caller-facing message for a pipeline error.
func EnvelopeMessage(err error) string {
	for _, m := range envelopeMessages {
		if errors.Is(err, m.err) {
			return m.message
		}
	}
	return MsgInternalError
}

type scanOutput struct {
	raw      []byte
	findings []model.Finding
	warnings []string
}

// RunScan clones the repository, scans it and returns the normalized result.
// It never returns an error: every failure, including a panic, is reported as
// an error envelope. The workspace is removed before RunScan returns.
func (x *UseCase) RunScan(ctx context.Context, input *model.RunScanInput) (env *model.ResultEnvelope) {
	var secrets []string
	defer func() {
		if r := recover(); r != nil {
			err := goerr.New("scan pipeline panicked",
				goerr.V("recovered", git.Redact(fmt.Sprint(r), secrets...)),
			)
			errutil.HandleError(ctx, "scan pipeline panicked", err)
			env = model.NewErrorEnvelope(MsgInternalError, err.Error())
		}
	}()

	if input == nil {
		input = &model.RunScanInput{}
	}
	if input.Credential != "" {
		secrets = []string{string(input.Credential)}
	}

	if err := input.Validate(); err != nil {
		return errorEnvelope(ctx, err, secrets)
	}
	target, err := model.NewAuthTarget(input.RepositoryURL, input.Credential)
	if err != nil {
		return errorEnvelope(ctx, err, secrets)
	}
	secrets = target.Secrets()

	job := model.NewScanJob(target, logging.CtxTime(ctx))
	ctx = logging.With(ctx, logging.From(ctx).With("job_id", job.ID, "repository", target.URL()))
	logging.From(ctx).Info("scan job accepted")

	out, err := x.runJob(ctx, job)
	if err != nil {
		job.Fail(err)
		env = errorEnvelope(ctx, err, secrets)
	} else {
		env = model.NewSuccessEnvelope(MsgScanCompleted, out.findings)
		env.Warnings = out.warnings
		logging.From(ctx).Info("scan job completed",
			"findings", len(out.findings),
			"warnings", len(out.warnings),
		)
	}
	env.JobID = job.ID
	env.Repository = target.URL()

	var raw []byte
	if out != nil {
		raw = out.raw
	}
	x.exportScan(ctx, job, env, raw)

	return env
}

func (x *UseCase) runJob(ctx context.Context, job *model.ScanJob) (*scanOutput, error) {
	if err := x.scanSem.Acquire(ctx, 1); err != nil {
		return nil, goerr.Wrap(types.ErrCancelled, "cancelled while waiting for a scan slot")
	}
	defer x.scanSem.Release(1)

	ws := x.clients.Workspace()
	name := job.Target.RepoName()

	unlock := ws.Lock(name)
	defer unlock()

	if ctx.Err() != nil {
		return nil, goerr.Wrap(types.ErrCancelled, "cancelled while waiting for workspace")
	}

	if err := job.Transition(model.JobCloning); err != nil {
		return nil, err
	}
	dir, err := ws.Prepare(ctx, x.workspaceDir, name)
	if err != nil {
		return nil, err
	}
	job.Workspace = dir
	defer ws.Release(context.WithoutCancel(ctx), dir)

	if err := x.clients.Fetcher().Fetch(ctx, job.Target, dir); err != nil {
		return nil, err
	}
	logging.From(ctx).Debug("repository fetched", "workspace", dir)

	if err := job.Transition(model.JobScanning); err != nil {
		return nil, err
	}
	raw, err := x.clients.Scanner().Scan(ctx, dir, x.scanTimeout)
	if err != nil {
		return nil, err
	}
	out := &scanOutput{raw: raw}

	if err := job.Transition(model.JobParsing); err != nil {
		return out, err
	}
	findings, warnings, err := NormalizeFindings(raw, dir)
	if err != nil {
		return out, err
	}
	out.findings = findings
	out.warnings = warnings

	if err := job.Transition(model.JobDone); err != nil {
		return out, err
	}

	return out, nil
}

func errorEnvelope(ctx context.Context, err error, secrets []string) *model.ResultEnvelope {
	message := EnvelopeMessage(err)
	detail := git.Redact(err.Error(), secrets...)

	if goErr := goerr.Unwrap(err); goErr != nil {
		if tail, ok := goErr.Values()["stderr_tail"].(string); ok && tail != "" {
			detail += ": " + git.Redact(tail, secrets...)
		}
	}

	if message == MsgInternalError {
		errutil.HandleError(ctx, "scan job failed", err)
	} else {
		logging.From(ctx).Warn("scan job failed", "message", message, "error", err)
	}

	return model.NewErrorEnvelope(message, detail)
}
