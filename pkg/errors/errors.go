// Package errors provides structured error reporting for the engine.
//
// The engine's error model is deliberately narrow: contract violations by
// element or layout authors are fatal panics (silently "fixing" them would
// mask incorrect layout math), cache misses are a normal silent path, and
// the only recoverable failures are equivalence checks that cannot
// complete. Those are reported here and then decided as "not equivalent".
package errors

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Kind categorizes an engine error.
type Kind int

const (
	// KindUnknown indicates an error of unknown category.
	KindUnknown Kind = iota
	// KindEquivalence indicates an element equivalence check that
	// errored or panicked.
	KindEquivalence
	// KindLayout indicates a non-fatal problem detected during layout.
	KindLayout
	// KindContract indicates a reported (non-fatal) contract issue.
	KindContract
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k Kind) String() string {
	switch k {
	case KindEquivalence:
		return "equivalence"
	case KindLayout:
		return "layout"
	case KindContract:
		return "contract"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// EngineError is a structured error reported by the engine.
type EngineError struct {
	// Op is the operation that failed (e.g., "element.checkEquivalence").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error, when
	// captured.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// CaptureStack returns the current goroutine's stack trace, skipping the
// frames of the capture machinery itself.
func CaptureStack() string {
	buf := make([]byte, 16*1024)
	n := runtime.Stack(buf, false)
	stack := string(buf[:n])

	lines := strings.Split(stack, "\n")
	if len(lines) > 5 {
		// Drop the goroutine header plus the CaptureStack frames.
		return lines[0] + "\n" + strings.Join(lines[5:], "\n")
	}
	return stack
}
