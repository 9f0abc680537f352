package obj

import (
	"fmt"
	"sync"

	"github.com/kestrel-lang/kestrel/kerr"
)

// ConvertFn converts ref (of some source type) into a freshly allocated
// Ref of the destination type, or fails.
type ConvertFn func(ref Ref) (Ref, error)

type convKey struct{ from, to *Type }

var conversions = struct {
	mu    sync.RWMutex
	table map[convKey]ConvertFn
}{table: make(map[convKey]ConvertFn)}

// RegisterConversion makes Cast(ref, to) succeed for refs of type from by
// calling fn. Conversions are opt-in: a type pair with no registered
// conversion still fails with TypeError.
func RegisterConversion(from, to *Type, fn ConvertFn) {
	conversions.mu.Lock()
	defer conversions.mu.Unlock()
	conversions.table[convKey{from, to}] = fn
}

// Cast converts ref to type t: identity when ref is already of type t,
// else the registered conversion, else TypeError.
func Cast(ref Ref, t *Type) (Ref, error) {
	from := TypeOf(ref)
	if from == t {
		return ref, nil
	}
	conversions.mu.RLock()
	fn, ok := conversions.table[convKey{from, t}]
	conversions.mu.RUnlock()
	if !ok {
		return nil, kerr.TypeError(from.Name, fmt.Sprintf("cast to %s", t.Name))
	}
	return fn(ref)
}
