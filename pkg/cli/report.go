package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
)

var severityColors = map[model.Severity]*color.Color{
	model.SeverityError:   color.New(color.FgRed, color.Bold),
	model.SeverityWarning: color.New(color.FgYellow, color.Bold),
	model.SeverityInfo:    color.New(color.FgCyan),
	model.SeverityUnknown: color.New(color.FgWhite),
}

var severityOrder = map[model.Severity]int{
	model.SeverityError:   0,
	model.SeverityWarning: 1,
	model.SeverityInfo:    2,
	model.SeverityUnknown: 3,
}

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	dimColor  = color.New(color.FgHiBlack)
)

func severityColor(s model.Severity) *color.Color {
	if c, ok := severityColors[s]; ok {
		return c
	}
	return severityColors[model.SeverityUnknown]
}

// writeReport prints env in a human readable form. Findings are grouped by
// severity, most severe first, and keep scanner order within a group.
func writeReport(w io.Writer, env *model.ResultEnvelope) {
	if !env.Succeeded() {
		_, _ = failColor.Fprintf(w, " [!] %s\n", env.Message)
		if env.Error != "" {
			fmt.Fprintf(w, "     %s\n", env.Error)
		}
		return
	}

	_, _ = okColor.Fprintf(w, " [-] %s", env.Message)
	if env.Repository != "" {
		fmt.Fprintf(w, ": %s", env.Repository)
	}
	fmt.Fprintln(w)

	findings := make([]model.Finding, len(env.Findings))
	copy(findings, env.Findings)
	sort.SliceStable(findings, func(i, j int) bool {
		return severityOrder[findings[i].Severity] < severityOrder[findings[j].Severity]
	})

	for _, f := range findings {
		c := severityColor(f.Severity)
		_, _ = c.Fprintf(w, "  %-8s", f.Severity)
		fmt.Fprintf(w, " %s:%s ", f.File, f.Line)
		_, _ = dimColor.Fprintf(w, "[%s]", f.RuleID)
		fmt.Fprintf(w, "\n           %s\n", f.Message)
	}

	for _, warning := range env.Warnings {
		_, _ = severityColors[model.SeverityWarning].Fprintf(w, " [~] %s\n", warning)
	}

	counts := env.CountBySeverity()
	fmt.Fprintf(w, " %d findings (error: %d, warning: %d, info: %d, unknown: %d)\n",
		len(env.Findings),
		counts[model.SeverityError],
		counts[model.SeverityWarning],
		counts[model.SeverityInfo],
		counts[model.SeverityUnknown],
	)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to encode output")
	}
	return nil
}
