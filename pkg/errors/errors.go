// Package errors provides custom error types for the doshii SDK.
// These errors enable programmatic error checking with errors.Is and
// errors.As across the REST client and the realtime subsystem.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the doshii SDK
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidSubscriber indicates an unsubscribe for an id that is not registered
	ErrInvalidSubscriber = errors.New("invalid subscriber ID")

	// ErrTransport indicates a socket level failure
	ErrTransport = errors.New("transport error")

	// ErrCallback indicates a subscriber callback failed during dispatch
	ErrCallback = errors.New("callback failed")

	// ErrMalformedFrame indicates inbound socket data matching no known frame shape
	ErrMalformedFrame = errors.New("malformed frame")

	// ErrClosed indicates use of a realtime hub after Close
	ErrClosed = errors.New("closed")

	// ErrAPIKeyRequired indicates that an API key is required but cannot be derived
	ErrAPIKeyRequired = errors.New("API key required")

	// ErrUnauthorized indicates the partner API rejected the credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrProviderUnavailable indicates that the partner API is temporarily unavailable
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrRateLimited indicates that the API rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")
)

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// SubscriberError is returned when a realtime operation references an
// unknown subscriber.
type SubscriberError struct {
	ID string
}

// Error implements the error interface
func (e *SubscriberError) Error() string {
	return fmt.Sprintf("invalid subscriber ID %q", e.ID)
}

// Is implements errors.Is support
func (e *SubscriberError) Is(target error) bool {
	return target == ErrInvalidSubscriber
}

// NewSubscriberError creates a new SubscriberError
func NewSubscriberError(id string) *SubscriberError {
	return &SubscriberError{ID: id}
}

// TransportError represents a failure of the realtime socket
type TransportError struct {
	Operation string // "dial", "read", "write", "close"
	URL       string
	Err       error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("transport error during %s of %s: %v", e.Operation, e.URL, e.Err)
	}
	return fmt.Sprintf("transport error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// NewTransportError creates a new TransportError
func NewTransportError(operation, url string, err error) *TransportError {
	return &TransportError{Operation: operation, URL: url, Err: err}
}

// CallbackError records a subscriber callback that panicked while an
// event was being dispatched.
type CallbackError struct {
	Subscriber string
	Event      string
	Recovered  any
}

// Error implements the error interface
func (e *CallbackError) Error() string {
	return fmt.Sprintf("callback for subscriber %s failed on %s: %v", e.Subscriber, e.Event, e.Recovered)
}

// Unwrap implements errors.Unwrap
func (e *CallbackError) Unwrap() error {
	if err, ok := e.Recovered.(error); ok {
		return err
	}
	return nil
}

// Is implements errors.Is support
func (e *CallbackError) Is(target error) bool {
	return target == ErrCallback
}

// FrameError represents inbound socket data that could not be decoded
type FrameError struct {
	Reason string
	Raw    string
}

// Error implements the error interface
func (e *FrameError) Error() string {
	return fmt.Sprintf("malformed frame: %s", e.Reason)
}

// Is implements errors.Is support
func (e *FrameError) Is(target error) bool {
	return target == ErrMalformedFrame
}

// NewFrameError creates a new FrameError. Raw data is truncated so a
// large frame does not flood the log.
func NewFrameError(reason string, raw []byte) *FrameError {
	const maxRaw = 256
	if len(raw) > maxRaw {
		raw = raw[:maxRaw]
	}
	return &FrameError{Reason: reason, Raw: string(raw)}
}

// APIError represents an error response from the partner API
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	switch {
	case e.StatusCode == 401 || e.StatusCode == 403:
		return target == ErrUnauthorized
	case e.StatusCode == 404:
		return target == ErrNotFound
	case e.StatusCode == 429:
		return target == ErrRateLimited
	case e.StatusCode >= 500:
		return target == ErrProviderUnavailable
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(endpoint string, statusCode int, message string) *APIError {
	return &APIError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", etc.
	Source  string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s parse error in %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, source string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		Source:  source,
		Message: message,
		Err:     err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "create", "update", "delete", "fetch", "encode"
	Resource  string // "request", "order", "device", ...
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// AuthenticationError represents a failure to produce request credentials
type AuthenticationError struct {
	Method  string // "jwt", "api_key"
	Message string
	Err     error
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication error (%s): %s", e.Method, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAPIKeyRequired
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(method, message string, err error) *AuthenticationError {
	return &AuthenticationError{
		Method:  method,
		Message: message,
		Err:     err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsInvalidSubscriber checks if an error references an unknown subscriber
func IsInvalidSubscriber(err error) bool {
	return errors.Is(err, ErrInvalidSubscriber)
}

// IsTransport checks if an error is a socket transport error
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsMalformedFrame checks if an error is a frame decoding error
func IsMalformedFrame(err error) bool {
	return errors.Is(err, ErrMalformedFrame)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsUnauthorized checks if the partner API rejected the credentials
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsProviderUnavailable checks if an error indicates partner API unavailability
func IsProviderUnavailable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable)
}

// Helper wrapping functions for common patterns


// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, source string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, source, err.Error(), err)
}
