package model

import (
	"log/slog"
	"time"

	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type JobStatus string

const (
	JobPending  JobStatus = "pending"
	JobCloning  JobStatus = "cloning"
	JobScanning JobStatus = "scanning"
	JobParsing  JobStatus = "parsing"
	JobDone     JobStatus = "done"
	JobFailed   JobStatus = "failed"
)

var jobTransitions = map[JobStatus][]JobStatus{
	JobPending:  {JobCloning, JobFailed},
	JobCloning:  {JobScanning, JobFailed},
	JobScanning: {JobParsing, JobFailed},
	JobParsing:  {JobDone, JobFailed},
}

func (x JobStatus) Terminal() bool {
	return x == JobDone || x == JobFailed
}

// ScanJob tracks one scan request through the pipeline. The credential lives only
// inside Target and is never part of the job's log representation.
type ScanJob struct {
	ID        types.JobID
	Target    *AuthTarget
	Workspace string
	Status    JobStatus
	Err       error
	StartedAt time.Time
}

func NewScanJob(target *AuthTarget, now time.Time) *ScanJob {
	return &ScanJob{
		ID:        types.NewJobID(),
		Target:    target,
		Status:    JobPending,
		StartedAt: now,
	}
}

// Transition moves the job to next. Terminal states cannot be left and only the
// forward edges of the pipeline (or a jump to failed) are accepted.
func (x *ScanJob) Transition(next JobStatus) error {
	for _, allowed := range jobTransitions[x.Status] {
		if allowed == next {
			x.Status = next
			return nil
		}
	}
	return goerr.New("invalid job status transition",
		goerr.V("job_id", x.ID),
		goerr.V("from", x.Status),
		goerr.V("to", next),
	)
}

// Fail moves the job to JobFailed and attaches the triggering error.
func (x *ScanJob) Fail(err error) {
	if x.Status.Terminal() {
		return
	}
	x.Status = JobFailed
	x.Err = err
}

func (x *ScanJob) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("id", x.ID.String()),
		slog.String("status", string(x.Status)),
		slog.String("workspace", x.Workspace),
	}
	if x.Target != nil {
		attrs = append(attrs, slog.String("repository", x.Target.URL()))
	}
	return slog.GroupValue(attrs...)
}
