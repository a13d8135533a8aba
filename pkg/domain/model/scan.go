package model

import (
	"time"

	"github.com/devstudio-sec/devscan/pkg/domain/types"
)

// ScanRecord is the exported summary of one finished scan job.
type ScanRecord struct {
	ID          types.ScanID    `bigquery:"id" json:"id"`
	Timestamp   time.Time       `bigquery:"timestamp" json:"timestamp"`
	JobID       types.JobID     `bigquery:"job_id" json:"job_id"`
	Repository  string          `bigquery:"repository" json:"repository"`
	Status      string          `bigquery:"status" json:"status"`
	Message     string          `bigquery:"message" json:"message"`
	Error       string          `bigquery:"error" json:"error"`
	Findings    []FindingRecord `bigquery:"findings" json:"findings"`
	Warnings    []string        `bigquery:"warnings" json:"warnings"`
	ArtifactURL string          `bigquery:"artifact_url" json:"artifact_url"`
}

type ScanRawRecord struct {
	ScanRecord
	Timestamp int64 `bigquery:"timestamp" json:"timestamp"`
}

func NewScanRecord(env *ResultEnvelope, timestamp time.Time, artifactURL string) *ScanRecord {
	findings := make([]FindingRecord, 0, len(env.Findings))
	for _, f := range env.Findings {
		findings = append(findings, f.Record())
	}

	warnings := env.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return &ScanRecord{
		ID:          types.NewScanID(),
		Timestamp:   timestamp,
		JobID:       env.JobID,
		Repository:  env.Repository,
		Status:      string(env.Status),
		Message:     env.Message,
		Error:       env.Error,
		Findings:    findings,
		Warnings:    warnings,
		ArtifactURL: artifactURL,
	}
}
