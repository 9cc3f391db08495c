// Package errors provides structured error types for the hot-reload engine.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries context for diagnostics: the file path involved, the
// module export involved, the offending value, and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseStage, errors.KindIO).
//		Path("./temp.wasm").
//		Detail("remove stale staging copy").
//		Cause(err).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidEvent(17, 16)
//	err := errors.MissingExport("game_create")
//
// All errors implement the standard error interface and support errors.Is/As.
// Two *Error values match under errors.Is when Phase and Kind agree, so the
// exported sentinels (ErrInvalidEvent, ErrProtocolViolation, ...) can be used
// as errors.Is targets.
package errors
