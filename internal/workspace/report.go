package workspace

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	fmterrors "csfmt/internal/errors"
)

// FileResult is the outcome of formatting one file.
type FileResult struct {
	Path    string              `json:"path" yaml:"path"`
	Changed bool                `json:"changed" yaml:"changed"`
	Written bool                `json:"written,omitempty" yaml:"written,omitempty"`
	Code    fmterrors.ErrorCode `json:"code,omitempty" yaml:"code,omitempty"`
	Message string              `json:"message,omitempty" yaml:"message,omitempty"`
	Err     error               `json:"-" yaml:"-"`
}

func (r *FileResult) setErr(err error) {
	r.Err = err
	r.Code = fmterrors.CodeOf(err)
	if fe, ok := fmterrors.From(err); ok {
		r.Message = fe.Message
		if cause := fe.Unwrap(); cause != nil {
			r.Message += ": " + cause.Error()
		}
		return
	}
	r.Message = err.Error()
}

// Failed reports whether the file could not be formatted. Unformatted files
// in check mode are not failures.
func (r FileResult) Failed() bool {
	return r.Err != nil && r.Code != fmterrors.Unformatted
}

// Summary counts the outcomes of a run.
type Summary struct {
	Files   int `json:"files" yaml:"files"`
	Changed int `json:"changed" yaml:"changed"`
	Failed  int `json:"failed" yaml:"failed"`
}

// Report is the result of a Runner.Run call.
type Report struct {
	RunID      string       `json:"runId" yaml:"runId"`
	Mode       string       `json:"mode" yaml:"mode"`
	StartedAt  time.Time    `json:"startedAt" yaml:"startedAt"`
	DurationMs int64        `json:"durationMs" yaml:"durationMs"`
	Summary    Summary      `json:"summary" yaml:"summary"`
	Files      []FileResult `json:"files" yaml:"files"`
}

func (rep *Report) summarize() {
	rep.Summary = Summary{Files: len(rep.Files)}
	for _, f := range rep.Files {
		if f.Changed {
			rep.Summary.Changed++
		}
		if f.Failed() {
			rep.Summary.Failed++
		}
	}
}

// OK reports whether the run succeeded: no failures, and in check mode no
// unformatted files.
func (rep *Report) OK() bool {
	if rep.Summary.Failed > 0 {
		return false
	}
	return rep.Mode != ModeCheck.String() || rep.Summary.Changed == 0
}

// ReportFormat selects how a report is rendered.
type ReportFormat string

const (
	FormatHuman ReportFormat = "human"
	FormatJSON  ReportFormat = "json"
	FormatYAML  ReportFormat = "yaml"
)

// ParseReportFormat validates a report format name.
func ParseReportFormat(s string) (ReportFormat, error) {
	switch f := ReportFormat(strings.ToLower(s)); f {
	case FormatHuman, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmterrors.New(fmterrors.ConfigInvalid,
		fmt.Sprintf("unknown report format %q (want human, json or yaml)", s), nil)
}

// Write renders the report to w.
func (rep *Report) Write(w io.Writer, f ReportFormat, useColor bool) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	default:
		return rep.writeHuman(w, useColor)
	}
}

type palette struct {
	ok, changed, failed, dim *color.Color
}

func newPalette(useColor bool) palette {
	p := palette{
		ok:      color.New(color.FgGreen),
		changed: color.New(color.FgYellow),
		failed:  color.New(color.FgRed, color.Bold),
		dim:     color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.ok, p.changed, p.failed, p.dim} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (rep *Report) writeHuman(w io.Writer, useColor bool) error {
	p := newPalette(useColor)
	var b strings.Builder

	for _, f := range rep.Files {
		switch {
		case f.Failed():
			fmt.Fprintf(&b, "%s %s: %s\n", p.failed.Sprint("error"), f.Path, p.dim.Sprintf("[%s] %s", f.Code, f.Message))
		case !f.Changed:
		case rep.Mode == ModeList.String():
			fmt.Fprintln(&b, f.Path)
		case rep.Mode == ModeCheck.String():
			fmt.Fprintf(&b, "%s %s\n", p.changed.Sprint("unformatted"), f.Path)
		default:
			fmt.Fprintf(&b, "%s %s\n", p.ok.Sprint("formatted"), f.Path)
		}
	}

	if rep.Mode != ModeList.String() {
		s := rep.Summary
		verb := "reformatted"
		if rep.Mode == ModeCheck.String() {
			verb = "unformatted"
		}
		line := fmt.Sprintf("%d file(s), %d %s, %d failed", s.Files, s.Changed, verb, s.Failed)
		if rep.OK() {
			line = p.ok.Sprint(line)
		} else {
			line = p.failed.Sprint(line)
		}
		b.WriteString(line + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// ShouldColor decides whether output to w is colored. mode is "always",
// "never" or "auto"; auto colors terminals unless NO_COLOR is set.
func ShouldColor(mode string, w io.Writer) bool {
	switch strings.ToLower(mode) {
	case "always":
		return true
	case "never":
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
