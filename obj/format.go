package obj

import (
	"fmt"
	"io"
	"strings"

	"github.com/kestrel-lang/kestrel/kerr"
)

// Show writes ref's representation to w using its Show capability. verb is
// passed through so a type can special-case the format that triggered the
// call (e.g. a container printing compactly for "%$" but verbosely for a
// dedicated "%+$"-style host extension).
func Show(w io.Writer, ref Ref, verb string) error {
	t := TypeOf(ref)
	c, ok := t.capability(CapShow).(*ShowCap)
	if !ok {
		_, err := fmt.Fprintf(w, "<%s %p>", t.Name, ref)
		return err
	}
	return c.Show(w, ref, verb)
}

// Fprintf is the capability-aware formatter: each "%$" in format consumes
// one positional arg and renders it through that arg's Show capability
// (or the default "<Type %p>" fallback); "%%" is a literal percent; any
// other text (including other fmt verbs) passes through unchanged.
func Fprintf(w io.Writer, format string, args ...Ref) error {
	argi := 0
	i := 0
	for i < len(format) {
		c := format[i]
		if c != '%' {
			if _, err := io.WriteString(w, string(c)); err != nil {
				return err
			}
			i++
			continue
		}
		// c == '%'
		if i+1 < len(format) && format[i+1] == '$' {
			if argi >= len(args) {
				return kerr.FormatError(format, "more %$ verbs than arguments")
			}
			if err := Show(w, args[argi], "%$"); err != nil {
				return err
			}
			argi++
			i += 2
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			if _, err := io.WriteString(w, "%"); err != nil {
				return err
			}
			i += 2
			continue
		}
		if _, err := io.WriteString(w, "%"); err != nil {
			return err
		}
		i++
	}
	return nil
}

// Sprintf is Fprintf rendered to a string, for call sites (error messages,
// debug logs) that don't already hold a writer.
func Sprintf(format string, args ...Ref) string {
	var sb strings.Builder
	_ = Fprintf(&sb, format, args...)
	return sb.String()
}
