package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeTool represents tool dispatch and handler errors
	ErrorTypeTool ErrorType = "tool"
	// ErrorTypeMemory represents memory record errors
	ErrorTypeMemory ErrorType = "memory"
	// ErrorTypeStorage represents backing store errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypePersonality represents personality profile errors
	ErrorTypePersonality ErrorType = "personality"
	// ErrorTypeAgent represents agent/LLM-related errors
	ErrorTypeAgent ErrorType = "agent"
	// ErrorTypeAuth represents authentication/authorization errors
	ErrorTypeAuth ErrorType = "auth"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// ErrType returns the error category; promoted through embedding so wrapper
// types answer IsErrorType without unwrapping.
func (e *BaseError) ErrType() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Sentinels

// ErrNotFound is the lookup-miss sentinel; typed not-found errors wrap it so
// callers can test with errors.Is.
var ErrNotFound = errors.New("not found")

// ErrInsufficientStock is returned when a deduction would drive an inventory
// counter negative.
var ErrInsufficientStock = errors.New("insufficient stock")

// Tool Errors

// ErrUnknownTool is returned when a tool name has no registered handler
type ErrUnknownTool struct {
	*BaseError
	ToolName string
}

func NewUnknownTool(toolName string) *ErrUnknownTool {
	return &ErrUnknownTool{
		BaseError: NewBaseError(ErrorTypeTool, fmt.Sprintf("Unknown tool: %s", toolName), nil),
		ToolName:  toolName,
	}
}

// ErrInvalidArguments is returned when a tool argument payload is not a JSON object
type ErrInvalidArguments struct {
	*BaseError
	ToolName string
}

func NewInvalidArguments(toolName string, err error) *ErrInvalidArguments {
	return &ErrInvalidArguments{
		BaseError: NewBaseError(ErrorTypeTool, fmt.Sprintf("invalid arguments for tool %s", toolName), err),
		ToolName:  toolName,
	}
}

// ErrToolHandlerFailure is returned when a handler fails internally
type ErrToolHandlerFailure struct {
	*BaseError
	ToolName string
	Reason   string
}

func NewToolHandlerFailure(toolName, reason string, err error) *ErrToolHandlerFailure {
	return &ErrToolHandlerFailure{
		BaseError: NewBaseError(ErrorTypeTool, fmt.Sprintf("tool %s failed: %s", toolName, reason), err),
		ToolName:  toolName,
		Reason:    reason,
	}
}

// Storage Errors

// ErrStorageUnavailable is returned when the backing store is unreachable
type ErrStorageUnavailable struct {
	*BaseError
	Store string
}

func NewStorageUnavailable(store string, err error) *ErrStorageUnavailable {
	return &ErrStorageUnavailable{
		BaseError: NewBaseError(ErrorTypeStorage, fmt.Sprintf("storage unavailable: %s", store), err),
		Store:     store,
	}
}

// Memory Errors

// ErrMemoryNotFound is returned when a memory record lookup misses
type ErrMemoryNotFound struct {
	*BaseError
	MemoryID string
}

func NewMemoryNotFound(memoryID string) *ErrMemoryNotFound {
	return &ErrMemoryNotFound{
		BaseError: NewBaseError(ErrorTypeMemory, fmt.Sprintf("memory not found: %s", memoryID), ErrNotFound),
		MemoryID:  memoryID,
	}
}

// ErrRecordNotFound is returned when a store row lookup misses
type ErrRecordNotFound struct {
	*BaseError
	Table string
	ID    string
}

func NewRecordNotFound(table, id string) *ErrRecordNotFound {
	return &ErrRecordNotFound{
		BaseError: NewBaseError(ErrorTypeStorage, fmt.Sprintf("%s not found: %s", table, id), ErrNotFound),
		Table:     table,
		ID:        id,
	}
}

// Auth Errors

// ErrAuthRequired is returned when a tool requiring auth is invoked without a subject
type ErrAuthRequired struct {
	*BaseError
	ToolName string
}

func NewAuthRequired(toolName string) *ErrAuthRequired {
	return &ErrAuthRequired{
		BaseError: NewBaseError(ErrorTypeAuth, fmt.Sprintf("authentication required for tool %s", toolName), nil),
		ToolName:  toolName,
	}
}

// ErrMissingScope is returned when the auth subject lacks a scope the tool demands
type ErrMissingScope struct {
	*BaseError
	ToolName string
	Scope    string
}

func NewMissingScope(toolName, scope string) *ErrMissingScope {
	return &ErrMissingScope{
		BaseError: NewBaseError(ErrorTypeAuth, fmt.Sprintf("missing scope %q for tool %s", scope, toolName), nil),
		ToolName:  toolName,
		Scope:     scope,
	}
}

// Agent Errors

// ErrComposerFailed is returned when the response composer gives up
type ErrComposerFailed struct {
	*BaseError
	Model     string
	Attempts  int
	Retryable bool
}

func NewComposerFailed(model string, attempts int, retryable bool, err error) *ErrComposerFailed {
	return &ErrComposerFailed{
		BaseError: NewBaseError(ErrorTypeAgent, fmt.Sprintf("composer failed after %d attempts", attempts), err),
		Model:     model,
		Attempts:  attempts,
		Retryable: retryable,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	var typed interface{ ErrType() ErrorType }
	if errors.As(err, &typed) {
		return typed.ErrType() == errType
	}
	return false
}

// IsNotFound reports whether err is a lookup miss of any kind
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	// Caller mistakes never clear up on retry
	if IsErrorType(err, ErrorTypeAuth) || IsErrorType(err, ErrorTypeConfig) {
		return false
	}
	var composerErr *ErrComposerFailed
	if errors.As(err, &composerErr) {
		return composerErr.Retryable
	}
	// Store outages are transient
	if IsErrorType(err, ErrorTypeStorage) {
		return true
	}
	return false
}
