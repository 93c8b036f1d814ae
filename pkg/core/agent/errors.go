package agent

import "fmt"

// MalformedOutputError means the completion provider returned text that is
// not parseable as JSON when JSON was required. Not retried at this layer;
// retry policy belongs to the transport boundary.
type MalformedOutputError struct {
	Raw string
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("model returned non-JSON output when JSON was required: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// SchemaValidationError means the JSON parsed but fields violate the action
// schema's constraints even after reasoning normalization.
type SchemaValidationError struct {
	Field  string
	Reason string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("action schema violation on field '%s': %s", e.Field, e.Reason)
}

// ProviderUnavailableError wraps completion-provider transport failures and
// timeouts so callers can decide on reconnect/backoff semantics.
type ProviderUnavailableError struct {
	Err error
}

func (e *ProviderUnavailableError) Error() string {
	return fmt.Sprintf("completion provider unavailable: %v", e.Err)
}

func (e *ProviderUnavailableError) Unwrap() error { return e.Err }
