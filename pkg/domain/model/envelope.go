package model

import (
	"encoding/json"

	"github.com/devstudio-sec/devscan/pkg/domain/types"
)

type EnvelopeStatus string

const (
	EnvelopeSuccess EnvelopeStatus = "success"
	EnvelopeError   EnvelopeStatus = "error"
)

// ResultEnvelope is the uniform result of a scan job and the only value that
// leaves the scan pipeline. Findings are set on success only, Error on failure only.
type ResultEnvelope struct {
	Status     EnvelopeStatus `json:"status"`
	Message    string         `json:"message"`
	JobID      types.JobID    `json:"job_id,omitempty"`
	Repository string         `json:"repository,omitempty"`
	Findings   []Finding      `json:"findings,omitempty"`
	Error      string         `json:"error,omitempty"`
	Warnings   []string       `json:"warnings,omitempty"`
}

func NewSuccessEnvelope(message string, findings []Finding) *ResultEnvelope {
	if findings == nil {
		findings = []Finding{}
	}
	return &ResultEnvelope{
		Status:   EnvelopeSuccess,
		Message:  message,
		Findings: findings,
	}
}

func NewErrorEnvelope(message, detail string) *ResultEnvelope {
	return &ResultEnvelope{
		Status:  EnvelopeError,
		Message: message,
		Error:   detail,
	}
}

func (x *ResultEnvelope) Succeeded() bool { return x.Status == EnvelopeSuccess }

// MarshalJSON always emits a findings array for a successful envelope, even an
// empty one, and never emits findings for a failed one.
func (x ResultEnvelope) MarshalJSON() ([]byte, error) {
	type alias ResultEnvelope
	if x.Status != EnvelopeSuccess {
		x.Findings = nil
		return json.Marshal(alias(x))
	}

	findings := x.Findings
	if findings == nil {
		findings = []Finding{}
	}
	return json.Marshal(struct {
		alias
		Findings []Finding `json:"findings"`
	}{
		alias:    alias(x),
		Findings: findings,
	})
}

// CountBySeverity returns the number of findings per severity.
func (x *ResultEnvelope) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, f := range x.Findings {
		counts[f.Severity]++
	}
	return counts
}
