package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityUnknown Severity = "unknown"
)

// ParseSeverity maps a scanner's severity vocabulary onto Severity. Matching is
// case-insensitive; unrecognized values map to SeverityUnknown.
func ParseSeverity(raw string) Severity {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "ERROR", "CRITICAL", "HIGH":
		return SeverityError
	case "WARNING", "WARN", "MEDIUM":
		return SeverityWarning
	case "INFO", "LOW", "INVENTORY", "NOTE":
		return SeverityInfo
	default:
		return SeverityUnknown
	}
}

// LineNumber is a 1-based line number. Zero means the scanner did not report one.
type LineNumber int

const lineUnknown = "unknown"

func (x LineNumber) Known() bool { return x > 0 }

func (x LineNumber) String() string {
	if !x.Known() {
		return lineUnknown
	}
	return strconv.Itoa(int(x))
}

func (x LineNumber) MarshalJSON() ([]byte, error) {
	if !x.Known() {
		return json.Marshal(lineUnknown)
	}
	return json.Marshal(int(x))
}

func (x *LineNumber) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*x = LineNumber(n)
		return nil
	}
	*x = 0
	return nil
}

// Finding is one normalized static-analysis result. It is a value type and is not
// modified after normalization.
type Finding struct {
	File     string     `json:"file"`
	Line     LineNumber `json:"line"`
	RuleID   string     `json:"rule_id"`
	Severity Severity   `json:"severity"`
	Message  string     `json:"message"`
}

// FindingRecord is the flat, schema-inferable form of Finding used for export.
type FindingRecord struct {
	File     string `bigquery:"file" json:"file"`
	Line     int64  `bigquery:"line" json:"line"`
	RuleID   string `bigquery:"rule_id" json:"rule_id"`
	Severity string `bigquery:"severity" json:"severity"`
	Message  string `bigquery:"message" json:"message"`
}

func (x Finding) Record() FindingRecord {
	return FindingRecord{
		File:     x.File,
		Line:     int64(x.Line),
		RuleID:   x.RuleID,
		Severity: string(x.Severity),
		Message:  x.Message,
	}
}
