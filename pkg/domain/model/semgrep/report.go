// Package semgrep describes the subset of semgrep's --json output that devscan
// consumes. Results are kept raw so that one malformed entry does not prevent the
// rest of the report from being read, and the optional fields of a result decode
// leniently: a value of the wrong type reads as absent.
package semgrep

import (
	"encoding/json"

	"github.com/devstudio-sec/devscan/pkg/domain/model"
)

type Report struct {
	Version string            `json:"version,omitempty"`
	Results []json.RawMessage `json:"results"`
	Errors  []Error           `json:"errors,omitempty"`
}

type Result struct {
	CheckID Text     `json:"check_id"`
	Path    Text     `json:"path"`
	Start   Position `json:"start"`
	Extra   Extra    `json:"extra"`
}

// Text is a string that decodes any non-string JSON value as empty.
type Text string

func (x *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*x = ""
		return nil
	}
	*x = Text(s)
	return nil
}

// Position decodes a non-object value as the zero position.
type Position struct {
	Line model.LineNumber `json:"line"`
}

func (x *Position) UnmarshalJSON(data []byte) error {
	type alias Position
	var v alias
	if err := json.Unmarshal(data, &v); err != nil {
		*x = Position{}
		return nil
	}
	*x = Position(v)
	return nil
}

// Extra decodes a non-object value as empty.
type Extra struct {
	Message  Text `json:"message"`
	Severity Text `json:"severity"`
	Lines    Text `json:"lines,omitempty"`
}

func (x *Extra) UnmarshalJSON(data []byte) error {
	type alias Extra
	var v alias
	if err := json.Unmarshal(data, &v); err != nil {
		*x = Extra{}
		return nil
	}
	*x = Extra(v)
	return nil
}

// Error is a tool-reported problem, e.g. a file that failed to parse. Type is
// either a string or a nested array depending on the semgrep version.
type Error struct {
	Code    int             `json:"code"`
	Level   string          `json:"level"`
	Type    json.RawMessage `json:"type,omitempty"`
	Message string          `json:"message"`
	Path    string          `json:"path,omitempty"`
}
