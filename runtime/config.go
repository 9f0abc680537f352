package runtime

import (
	"log/slog"
	"time"

	"github.com/kestrel-lang/kestrel/internal/logging"
	"github.com/kestrel-lang/kestrel/kerr"
	"github.com/kestrel-lang/kestrel/obj"
	"github.com/kestrel-lang/kestrel/obj/alloc"
)

// Config turns what would otherwise be compile-time switches into
// ordinary struct fields (alloc.SizeClassConfig, a *slog.Logger) rather
// than build tags, so a host can flip them per-Runtime. Every switch
// defaults to on.
type Config struct {
	// MagicCheck validates the header sentinel of every Ref that Alloc
	// (and so New/NewRoot) hands back, and of the result of a type's Copy
	// capability in Copy. Disabling it trades corruption detection for a
	// few cycles.
	MagicCheck bool

	// AllocCheck makes Dealloc refuse Static/Stack/Data refs and nil.
	AllocCheck bool

	// MemoryCheck makes allocation failure surface as kerr.OutOfMemory
	// rather than as the allocator's own error.
	MemoryCheck bool

	// GCEnabled activates the registry, marking, sweeping, and the
	// new/del registration hooks. With it off, New degenerates to
	// Alloc+Construct and storage must be released manually via Del.
	GCEnabled bool

	// GCInterval, when positive and GCEnabled, starts the collector's
	// background goroutine (gc.Collector.Start) running an automatic
	// collection on that cadence; New stops it again in Finish. Zero
	// leaves collection manual-trigger only (Run/the registry's
	// pressure threshold in Add), which is also what a zero Config
	// defaults to.
	GCInterval time.Duration

	// SizeClass configures the backing arena's bucket strategy.
	SizeClass alloc.SizeClassConfig

	// Log receives lifecycle and collector diagnostics. A nil Logger
	// is replaced by a discard logger.
	Log *slog.Logger
}

// DefaultConfig returns every switch on, the balanced size-class table,
// and a discard logger — the configuration New uses when a caller
// doesn't build one explicitly. GCInterval is left at zero: automatic
// background collection is an opt-in a host requests explicitly.
func DefaultConfig() Config {
	return Config{
		MagicCheck:  true,
		AllocCheck:  true,
		MemoryCheck: true,
		GCEnabled:   true,
		SizeClass:   alloc.DefaultConfig,
		Log:         logging.Init(logging.Options{}),
	}
}

// checkMagic validates ref's header sentinel when cfg.MagicCheck is on,
// surfacing corruption as a ResourceError instead of leaving it to
// whatever later obj.Valid-guarded call happens to trip over it first.
func (cfg Config) checkMagic(ref obj.Ref) error {
	if cfg.MagicCheck && !obj.Valid(ref) {
		return kerr.ResourceError("header", "corrupt header: bad magic")
	}
	return nil
}
