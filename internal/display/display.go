// Package display formats managed values for human or machine
// consumption: a small Options struct controlling an output format and
// a Printer bound to one io.Writer, rather than one-off fmt.Println
// calls scattered through callers.
package display

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kestrel-lang/kestrel/obj"
)

// Format selects how Printer renders a value.
type Format string

const (
	// FormatText renders via the value's Show capability.
	FormatText Format = "text"
	// FormatJSON renders a small structural summary as JSON.
	FormatJSON Format = "json"
)

// Options controls Printer's behavior.
type Options struct {
	Format Format
}

// DefaultOptions is FormatText with no other settings.
func DefaultOptions() Options {
	return Options{Format: FormatText}
}

// Printer writes formatted values to one io.Writer.
type Printer struct {
	w    io.Writer
	opts Options
}

// New creates a Printer writing to w under opts.
func New(w io.Writer, opts Options) *Printer {
	return &Printer{w: w, opts: opts}
}

// summary is the JSON shape for a single value.
type summary struct {
	Type string `json:"type"`
	Show string `json:"show"`
	Len  *int   `json:"len,omitempty"`
}

// PrintValue writes ref in the Printer's configured format.
func (p *Printer) PrintValue(ref obj.Ref) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printValueJSON(ref)
	default:
		return p.printValueText(ref)
	}
}

func (p *Printer) printValueText(ref obj.Ref) error {
	if err := obj.Show(p.w, ref, "%$"); err != nil {
		return err
	}
	_, err := fmt.Fprintln(p.w)
	return err
}

func (p *Printer) printValueJSON(ref obj.Ref) error {
	var sb fmt.Stringer = showStringer{ref}
	s := summary{Type: obj.TypeOf(ref).Name, Show: sb.String()}
	if n, err := obj.Len(ref); err == nil {
		s.Len = &n
	}
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

type showStringer struct{ ref obj.Ref }

func (s showStringer) String() string {
	return obj.Sprintf("%$", s.ref)
}
