package errors

import (
	"fmt"
	"sync"
	"time"
)

// Handler receives errors reported by the engine.
type Handler interface {
	HandleError(err *EngineError)
}

var (
	handlerMu sync.RWMutex

	// defaultHandler is the global error handler.
	defaultHandler Handler = NewLogHandler()
)

// SetHandler configures the global error handler. Pass nil to restore the
// default log handler.
func SetHandler(h Handler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	if h == nil {
		defaultHandler = NewLogHandler()
	} else {
		defaultHandler = h
	}
}

func currentHandler() Handler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return defaultHandler
}

// Report sends an error to the global handler. If err.Timestamp is zero,
// it is set to the current time.
func Report(err *EngineError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if h := currentHandler(); h != nil {
		h.HandleError(err)
	}
}

// Recover is a helper for deferred panic recovery in host callbacks:
//
//	defer errors.Recover("host.applyDescription")
func Recover(op string) {
	if r := recover(); r != nil {
		Report(&EngineError{
			Op:         op,
			Kind:       KindPanic,
			Err:        &recoveredPanic{value: r},
			StackTrace: CaptureStack(),
		})
	}
}

type recoveredPanic struct {
	value any
}

func (p *recoveredPanic) Error() string {
	if err, ok := p.value.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("panic: %v", p.value)
}
