package errors

import (
	"errors"
	"fmt"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures a configuration schema violation: the YAML path
// that failed and the value found there.
type ValidationError struct {
	Field   string
	Value   any
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, value any, err error) error {
	return &ValidationError{Field: field, Value: value, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ErrorCode identifies an expected, user-facing failure.
type ErrorCode string

const (
	CodeStackNotFound    ErrorCode = "STACK_NOT_FOUND"
	CodeSpecifyStackName ErrorCode = "SPECIFY_STACK_NAME"
	CodeSpecifyCommand   ErrorCode = "SPECIFY_COMMAND"
	CodeWrongWorkdir     ErrorCode = "WRONG_WORKDIR"
	CodeStackNotRunning  ErrorCode = "STACK_NOT_RUNNING"
	CodeEngine           ErrorCode = "ENGINE_FAILURE"
	CodeExecInterrupted  ErrorCode = "EXEC_INTERRUPTED"
	CodeInvalidWorkdir   ErrorCode = "INVALID_WORKDIR"
	CodeNotInteractive   ErrorCode = "NOT_INTERACTIVE"
	CodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
)

// Sentinels for errors.Is comparisons. Matching is by code only.
var (
	ErrStackNotFound    = &DomainError{Code: CodeStackNotFound}
	ErrSpecifyStackName = &DomainError{Code: CodeSpecifyStackName}
	ErrSpecifyCommand   = &DomainError{Code: CodeSpecifyCommand}
	ErrWrongWorkdir     = &DomainError{Code: CodeWrongWorkdir}
	ErrStackNotRunning  = &DomainError{Code: CodeStackNotRunning}
	ErrEngine           = &DomainError{Code: CodeEngine}
	ErrExecInterrupted  = &DomainError{Code: CodeExecInterrupted}
	ErrInvalidWorkdir   = &DomainError{Code: CodeInvalidWorkdir}
	ErrNotInteractive   = &DomainError{Code: CodeNotInteractive}
	ErrConfigNotFound   = &DomainError{Code: CodeConfigNotFound}
)

// DomainError is an anticipated failure whose message is safe to show to
// the user as is.
type DomainError struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// NewDomainError constructs a DomainError.
func NewDomainError(code ErrorCode, message string, context map[string]any) error {
	return &DomainError{Code: code, Message: message, Context: context}
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) || e == nil || other == nil {
		return false
	}
	return e.Code == other.Code
}

// StackNotFound reports a stack name missing from the configuration.
func StackNotFound(name string) error {
	return NewDomainError(CodeStackNotFound, fmt.Sprintf("Stack %q not found in the configuration.", name), map[string]any{"stack": name})
}

// SpecifyStackName reports that no stack could be inferred for the command.
func SpecifyStackName() error {
	return NewDomainError(CodeSpecifyStackName, "Could not determine which stack to use. Please specify a stack name.", nil)
}

// SpecifyCommand reports an exec request with nothing to run.
func SpecifyCommand() error {
	return NewDomainError(CodeSpecifyCommand, "No command to execute. Pass a command or declare stages.run.command for the stack.", nil)
}

// WrongWorkdir reports an exec from outside the stack's host directory.
func WrongWorkdir(hostDir string) error {
	return NewDomainError(CodeWrongWorkdir, fmt.Sprintf("The current directory is outside of %s. Change into it or pass --stack-path.", hostDir), map[string]any{"host_dir": hostDir})
}

// StackNotRunning reports an exec against a stopped container.
func StackNotRunning(name string) error {
	return NewDomainError(CodeStackNotRunning, fmt.Sprintf("Stack %q is not running. Start it with `voila start`.", name), map[string]any{"stack": name})
}

// EngineFailure reports a failure returned by the container engine.
func EngineFailure(message string) error {
	return NewDomainError(CodeEngine, message, nil)
}

// ExecInterrupted reports an interactive exec that ended with status 1.
func ExecInterrupted(container string) error {
	return NewDomainError(CodeExecInterrupted, fmt.Sprintf("Command execution in %s was interrupted.", container), map[string]any{"container": container})
}

// InvalidWorkdir reports a stack definition without a usable workdir.
func InvalidWorkdir(stack string) error {
	return NewDomainError(CodeInvalidWorkdir, fmt.Sprintf("Stack %q must declare a workdir as a path or a host: container pair.", stack), map[string]any{"stack": stack})
}

// NotInteractive reports that a choice was required but no terminal is attached.
func NotInteractive(candidates []string) error {
	return NewDomainError(CodeNotInteractive, "Multiple stacks match the current directory and no terminal is available to choose one. Please specify a stack name.", map[string]any{"candidates": candidates})
}

// ConfigNotFound reports that no configuration file exists above start.
func ConfigNotFound(start string) error {
	return NewDomainError(CodeConfigNotFound, fmt.Sprintf("No .voila.yml found in %s or any parent directory.", start), map[string]any{"start": start})
}
