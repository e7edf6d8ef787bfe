package engine

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the phase whose user callback faulted.
type ErrorCode int

const (
	CodeRuntime       ErrorCode = 0x1000 // lifecycle hooks, map init, dialog close
	CodeContextInit   ErrorCode = 0x1001 // no drawing surface
	CodeSpriteRuntime ErrorCode = 0x1002 // sprite frame logic and movement
	CodeSpriteInput   ErrorCode = 0x1003 // player key handler
	CodeSpritePaint   ErrorCode = 0x1004 // sprite painting and animations
	CodeMapPaint      ErrorCode = 0x1005 // tileset painting
)

// String returns the short name used in logs.
func (c ErrorCode) String() string {
	switch c {
	case CodeRuntime:
		return "runtime"
	case CodeContextInit:
		return "2d-context-init"
	case CodeSpriteRuntime:
		return "sprite-runtime"
	case CodeSpriteInput:
		return "sprite-input"
	case CodeSpritePaint:
		return "sprite-paint"
	case CodeMapPaint:
		return "map-paint"
	default:
		return fmt.Sprintf("code-%#x", int(c))
	}
}

var (
	// ErrNoSurface is returned by New when no drawing surface is given.
	ErrNoSurface = errors.New("unable to initialize drawing surface")
	// ErrBadMap reports a map whose layers are missing or mismatched.
	ErrBadMap = errors.New("incorrect map parameters")
	// ErrUnknownMap reports a map id that was never added.
	ErrUnknownMap = errors.New("unknown map")
)

// Fault wraps an error raised by a user callback with the phase it came from.
type Fault struct {
	Code ErrorCode
	Err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %v", f.Code, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// panicError converts a recovered panic value into an error.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}

// safeExecute runs fn and routes any error or panic to the error hook,
// tagged with code. It never lets a fault escape to the caller.
func (w *World) safeExecute(code ErrorCode, fn func() error) {
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = panicError(r)
			}
		}()
		err = fn()
	}()
	if err != nil {
		w.report(code, err)
	}
}

func (w *World) report(code ErrorCode, err error) {
	reportFault(w, w.opts, code, err)
}

// reportFault delivers a fault to opts.OnError, or logs it when no hook is set.
// It is shared with New, which must report before a World exists.
func reportFault(w *World, opts Options, code ErrorCode, err error) {
	fault := &Fault{Code: code, Err: err}
	if opts.OnError == nil {
		opts.Logger.Error("fault", "code", code, "err", err)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			opts.Logger.Error("error hook panicked", "code", code, "err", panicError(r))
		}
	}()
	opts.OnError(w, code, fault)
}
