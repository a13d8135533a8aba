package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/devstudio-sec/devscan/pkg/domain/model/semgrep"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
)

// DefaultFindingMessage is used when the scanner reports a result without a message.
const DefaultFindingMessage = "No message provided."

// NormalizeFindings converts semgrep JSON output into findings in emission
// order. Entries without a path or rule ID are dropped and reported as
// warnings together with the scanner's own errors. Optional fields of the wrong
// type are treated as absent. Paths under root are made
// relative to it. Only output whose top level is not an object, or whose
// results field is not an array, fails with types.ErrMalformedOutput.
func NormalizeFindings(raw []byte, root string) ([]model.Finding, []string, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return nil, nil, goerr.Wrap(types.ErrMalformedOutput, "scanner output is not a JSON object",
			goerr.V("size", len(raw)),
		)
	}

	var report semgrep.Report
	if data, ok := top["results"]; ok {
		if err := json.Unmarshal(data, &report.Results); err != nil {
			return nil, nil, goerr.Wrap(types.ErrMalformedOutput, "results field is not an array")
		}
	}

	findings := []model.Finding{}
	var warnings []string

	for i, entry := range report.Results {
		finding, reason := normalizeResult(entry, root)
		if reason != "" {
			warnings = append(warnings, fmt.Sprintf("result[%d] dropped: %s", i, reason))
			continue
		}
		findings = append(findings, finding)
	}

	if data, ok := top["errors"]; ok {
		if err := json.Unmarshal(data, &report.Errors); err != nil {
			warnings = append(warnings, "scanner errors could not be parsed")
		}
	}
	for _, e := range report.Errors {
		warnings = append(warnings, scannerErrorWarning(e, root))
	}

	return findings, warnings, nil
}

func normalizeResult(entry json.RawMessage, root string) (model.Finding, string) {
	if trimmed := bytes.TrimSpace(entry); len(trimmed) == 0 || trimmed[0] != '{' {
		return model.Finding{}, "not an object"
	}

	var result semgrep.Result
	if err := json.Unmarshal(entry, &result); err != nil {
		return model.Finding{}, "invalid object"
	}

	path := strings.TrimSpace(string(result.Path))
	if path == "" {
		return model.Finding{}, "missing path"
	}
	checkID := strings.TrimSpace(string(result.CheckID))
	if checkID == "" {
		return model.Finding{}, "missing rule ID"
	}

	message := strings.TrimSpace(string(result.Extra.Message))
	if message == "" {
		message = DefaultFindingMessage
	}

	return model.Finding{
		File:     relativePath(path, root),
		Line:     result.Start.Line,
		RuleID:   checkID,
		Severity: model.ParseSeverity(string(result.Extra.Severity)),
		Message:  message,
	}, ""
}

func scannerErrorWarning(e semgrep.Error, root string) string {
	level := e.Level
	if level == "" {
		level = "error"
	}
	msg := fmt.Sprintf("scanner %s: %s", level, strings.TrimSpace(e.Message))
	if e.Path != "" {
		msg += " (" + relativePath(e.Path, root) + ")"
	}
	return msg
}

func relativePath(p, root string) string {
	if root == "" || !filepath.IsAbs(p) {
		return p
	}
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}
	return filepath.ToSlash(rel)
}
