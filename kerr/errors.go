// Package kerr defines the error kinds raised by the runtime core.
//
// Every failure the core can produce is one of a small fixed set of kinds.
// Kind is checked with errors.Is against the package-level sentinels below;
// *RuntimeError additionally carries the offending value's description so a
// host can print a useful message without re-deriving it.
package kerr

import (
	"errors"
	"fmt"
)

// Kind distinguishes the five core error kinds plus the consumer-defined
// IndexError.
type Kind uint8

const (
	// KindOutOfMemory means storage was unavailable during alloc or rehash.
	KindOutOfMemory Kind = iota
	// KindResourceError means a non-heap object was passed to dealloc/del.
	KindResourceError
	// KindTypeError means a capability was not implemented by a type.
	KindTypeError
	// KindKeyError means a map operation addressed an absent key.
	KindKeyError
	// KindFormatError means constructor arguments were malformed.
	KindFormatError
	// KindIndexError is a consumer-defined out-of-range condition.
	KindIndexError
)

func (k Kind) String() string {
	switch k {
	case KindOutOfMemory:
		return "OutOfMemory"
	case KindResourceError:
		return "ResourceError"
	case KindTypeError:
		return "TypeError"
	case KindKeyError:
		return "KeyError"
	case KindFormatError:
		return "FormatError"
	case KindIndexError:
		return "IndexError"
	default:
		return "UnknownError"
	}
}

// Sentinels for errors.Is. RuntimeError.Is matches against these by Kind,
// so a wrapped *RuntimeError still satisfies errors.Is(err, kerr.ErrKeyError).
var (
	ErrOutOfMemory   = errors.New("kerr: out of memory")
	ErrResourceError = errors.New("kerr: resource error")
	ErrTypeError     = errors.New("kerr: type error")
	ErrKeyError      = errors.New("kerr: key error")
	ErrFormatError   = errors.New("kerr: format error")
	ErrIndexError    = errors.New("kerr: index error")
)

func sentinel(k Kind) error {
	switch k {
	case KindOutOfMemory:
		return ErrOutOfMemory
	case KindResourceError:
		return ErrResourceError
	case KindTypeError:
		return ErrTypeError
	case KindKeyError:
		return ErrKeyError
	case KindFormatError:
		return ErrFormatError
	default:
		return ErrIndexError
	}
}

// RuntimeError is the concrete error value raised for every core failure.
// Subject names the offending object or operation (e.g. a type name, a
// key's formatted value, a capability name) so messages are self-contained.
type RuntimeError struct {
	Kind    Kind
	Subject string
	Reason  string
}

func (e *RuntimeError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Subject, e.Reason)
}

// Is lets errors.Is(err, kerr.ErrKeyError) succeed for any KeyError-kind
// *RuntimeError, without callers needing to type-assert.
func (e *RuntimeError) Is(target error) bool {
	return target == sentinel(e.Kind)
}

func newErr(k Kind, subject, reason string) *RuntimeError {
	return &RuntimeError{Kind: k, Subject: subject, Reason: reason}
}

// OutOfMemory reports that allocation or rehash could not find storage.
func OutOfMemory(subject string) error {
	return newErr(KindOutOfMemory, subject, "no storage available")
}

// ResourceError reports misuse of dealloc/del on a non-heap or invalid ref.
func ResourceError(subject, reason string) error {
	return newErr(KindResourceError, subject, reason)
}

// TypeError reports that a type does not implement a requested capability.
func TypeError(typeName, capability string) error {
	return newErr(KindTypeError, typeName, fmt.Sprintf("capability %q not implemented", capability))
}

// KeyError reports an absent key in a get/rem operation.
func KeyError(key string) error {
	return newErr(KindKeyError, key, "key not found")
}

// FormatError reports malformed constructor arguments.
func FormatError(subject, reason string) error {
	return newErr(KindFormatError, subject, reason)
}

// IndexError reports a consumer-defined out-of-range access.
func IndexError(subject, reason string) error {
	return newErr(KindIndexError, subject, reason)
}
