// Package output renders command results for cnwallet as text for people or
// JSON for scripts.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Format selects how results are rendered.
type Format string

// Output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatAuto Format = "auto"
)

// ParseFormat parses a format name. Unknown names select FormatAuto.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return FormatAuto
	}
}

// Resolve turns FormatAuto into text on a terminal and JSON elsewhere.
func Resolve(w io.Writer, f Format) Format {
	if f != FormatAuto {
		return f
	}
	if IsTerminal(w) {
		return FormatText
	}
	return FormatJSON
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: Fd fits in int on supported platforms
}

// Printer writes results in a fixed format.
type Printer struct {
	format Format
	w      io.Writer
}

// NewPrinter creates a printer. FormatAuto is resolved against w.
func NewPrinter(w io.Writer, f Format) *Printer {
	return &Printer{format: Resolve(w, f), w: w}
}

// Format returns the resolved format.
func (p *Printer) Format() Format {
	return p.format
}

// Writer returns the destination.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// IsJSON reports whether results are rendered as JSON.
func (p *Printer) IsJSON() bool {
	return p.format == FormatJSON
}

// Emit writes v as indented JSON, or calls text for the human rendering.
func (p *Printer) Emit(v any, text func(io.Writer) error) error {
	if p.IsJSON() {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return text(p.w)
}

// Line writes v as a single compact JSON line, or as its text form. Used
// for streams where each value must be one line.
func (p *Printer) Line(v any) error {
	if p.IsJSON() {
		return json.NewEncoder(p.w).Encode(v)
	}
	var err error
	switch val := v.(type) {
	case string:
		_, err = fmt.Fprintln(p.w, val)
	case fmt.Stringer:
		_, err = fmt.Fprintln(p.w, val.String())
	default:
		_, err = fmt.Fprintf(p.w, "%v\n", val)
	}
	return err
}

// Printf writes formatted text regardless of format.
func (p *Printer) Printf(format string, args ...any) error {
	_, err := fmt.Fprintf(p.w, format, args...)
	return err
}

// KV writes aligned "key: value" lines in text mode.
func KV(w io.Writer, pairs ...[2]string) error {
	width := 0
	for _, kv := range pairs {
		if len(kv[0]) > width {
			width = len(kv[0])
		}
	}
	for _, kv := range pairs {
		if _, err := fmt.Fprintf(w, "%-*s  %s\n", width+1, kv[0]+":", kv[1]); err != nil {
			return err
		}
	}
	return nil
}
