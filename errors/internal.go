package errors

import (
	"fmt"

	"github.com/ztrue/tracerr"
)

type InternalKind int

const (
	NoStaticSize InternalKind = iota
	StaticSizeMismatch
	UnresolvedLabel
	DuplicateLabel
	MissingEntry
	UnknownFunction
	UnknownTemporary
	UnknownStatic
	MalformedSplice
	UnsupportedOperand
	AnyInDiagnostic
)

func (k InternalKind) String() string {
	data := map[InternalKind]string{
		NoStaticSize:       "no static size",
		StaticSizeMismatch: "static size mismatch",
		UnresolvedLabel:    "unresolved label",
		DuplicateLabel:     "duplicate label",
		MissingEntry:       "missing entry point",
		UnknownFunction:    "unknown function",
		UnknownTemporary:   "unknown temporary",
		UnknownStatic:      "unknown static",
		MalformedSplice:    "malformed splice",
		UnsupportedOperand: "unsupported operand",
		AnyInDiagnostic:    "internal type in diagnostic",
	}
	return data[k]
}

// Internal reports a broken compiler invariant: an earlier phase produced
// inconsistent state. These are never shown as user diagnostics.
type Internal struct {
	Kind   InternalKind
	Detail string
}

func (e Internal) Error() string {
	return fmt.Sprintf("internal compiler error (%s): %s. This is a bug", e.Kind, e.Detail)
}

func Internalf(kind InternalKind, format string, args ...interface{}) Internal {
	return Internal{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// IsInternal reports whether err is, or wraps, an Internal of the given kind.
func IsInternal(err error, kind InternalKind) bool {
	err = tracerr.Unwrap(err)
	for err != nil {
		if e, ok := err.(Internal); ok {
			return e.Kind == kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
