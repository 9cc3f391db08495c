package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseStartup  Phase = "startup"  // engine/runtime construction
	PhaseInput    Phase = "input"    // input backend lifecycle
	PhaseEvent    Phase = "event"    // event rendering/parsing
	PhaseStage    Phase = "stage"    // staging copy of the module file
	PhaseLoad     Phase = "load"     // module compilation and instantiation
	PhaseValidate Phase = "validate" // ABI validation
	PhaseCreate   Phase = "create"   // game factory invocation
	PhaseGame     Phase = "game"     // calls into a live game
	PhaseConfig   Phase = "config"   // configuration loading
	PhaseRuntime  Phase = "runtime"  // runtime operations
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidEvent      Kind = "invalid_event"
	KindProtocolViolation Kind = "protocol_violation"
	KindNotInitialized    Kind = "not_initialized"
	KindInvalidState      Kind = "invalid_state"
	KindIO                Kind = "io"
	KindMissingExport     Kind = "missing_export"
	KindSignatureMismatch Kind = "signature_mismatch"
	KindVersionMismatch   Kind = "version_mismatch"
	KindFactoryFailed     Kind = "factory_failed"
	KindTrap              Kind = "trap"
	KindInvalidInput      Kind = "invalid_input"
	KindInstantiation     Kind = "instantiation"
	KindInvalidData       Kind = "invalid_data"
	KindNotFound          Kind = "not_found"
)

// Sentinels for errors.Is matching. Only Phase and Kind are compared.
var (
	ErrInvalidEvent      = &Error{Phase: PhaseEvent, Kind: KindInvalidEvent}
	ErrProtocolViolation = &Error{Phase: PhaseStartup, Kind: KindProtocolViolation}
	ErrMissingExport     = &Error{Phase: PhaseValidate, Kind: KindMissingExport}
	ErrSignatureMismatch = &Error{Phase: PhaseValidate, Kind: KindSignatureMismatch}
	ErrVersionMismatch   = &Error{Phase: PhaseValidate, Kind: KindVersionMismatch}
	ErrFactoryFailed     = &Error{Phase: PhaseCreate, Kind: KindFactoryFailed}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Path   string
	Export string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}

	if e.Export != "" {
		b.WriteString(" (export ")
		b.WriteString(e.Export)
		b.WriteByte(')')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the file path involved
func (b *Builder) Path(path string) *Builder {
	b.err.Path = path
	return b
}

// Export sets the module export involved
func (b *Builder) Export(name string) *Builder {
	b.err.Export = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidEvent creates an error for an event ordinal outside the known range
func InvalidEvent(ordinal, maxValid uint32) *Error {
	return &Error{
		Phase:  PhaseEvent,
		Kind:   KindInvalidEvent,
		Detail: fmt.Sprintf("event ordinal %d out of range (max %d)", ordinal, maxValid),
		Value:  ordinal,
	}
}

// UnknownEventName creates an error for a name that maps to no event
func UnknownEventName(name string) *Error {
	return &Error{
		Phase:  PhaseEvent,
		Kind:   KindInvalidEvent,
		Detail: fmt.Sprintf("unknown event name %q", name),
		Value:  name,
	}
}

// ProtocolViolation creates an error for host-side misuse of a lifecycle
func ProtocolViolation(detail string) *Error {
	return &Error{
		Phase:  PhaseStartup,
		Kind:   KindProtocolViolation,
		Detail: detail,
	}
}

// InvalidState creates an error for an operation attempted in the wrong lifecycle state
func InvalidState(phase Phase, op, state string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidState,
		Detail: fmt.Sprintf("%s not allowed in state %s", op, state),
		Value:  state,
	}
}

// IO creates a filesystem error for the given path
func IO(phase Phase, path, op string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Path:   path,
		Detail: op,
		Cause:  cause,
	}
}

// MissingExport creates an error for a required module export that is absent
func MissingExport(name string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindMissingExport,
		Export: name,
		Detail: "required export not found",
	}
}

// SignatureMismatch creates an error for an export with the wrong function type
func SignatureMismatch(name, want, got string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindSignatureMismatch,
		Export: name,
		Detail: fmt.Sprintf("want %s, got %s", want, got),
	}
}

// VersionMismatch creates an error for an unsupported module ABI version
func VersionMismatch(got, want uint32) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindVersionMismatch,
		Detail: fmt.Sprintf("module ABI version %d, host supports %d", got, want),
		Value:  got,
	}
}

// FactoryFailed creates an error for a factory that signaled its own failure
func FactoryFailed(export string) *Error {
	return &Error{
		Phase:  PhaseCreate,
		Kind:   KindFactoryFailed,
		Export: export,
		Detail: "factory returned a null handle",
	}
}

// Trap creates an error for a guest call that trapped
func Trap(phase Phase, export string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTrap,
		Export: export,
		Cause:  cause,
	}
}

// NotInitialized creates a not-initialized error for a missing component
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInstantiation,
		Detail: "instantiate module",
		Cause:  cause,
	}
}

// Load creates a module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
