package enums

import "fmt"

// TraceEventType describes what kind of lifecycle fact an event records.
type TraceEventType string

const (
	TraceEventTypeCreated   TraceEventType = "created"
	TraceEventTypeUpdated   TraceEventType = "updated"
	TraceEventTypeProcessed TraceEventType = "processed"
	TraceEventTypeCompleted TraceEventType = "completed"
	TraceEventTypeFailed    TraceEventType = "failed"
	TraceEventTypeCanceled  TraceEventType = "canceled"
	TraceEventTypeError     TraceEventType = "error"
	TraceEventTypeInfo      TraceEventType = "info"
	TraceEventTypeWarning   TraceEventType = "warning"
)

var validTraceEventTypes = []TraceEventType{
	TraceEventTypeCreated,
	TraceEventTypeUpdated,
	TraceEventTypeProcessed,
	TraceEventTypeCompleted,
	TraceEventTypeFailed,
	TraceEventTypeCanceled,
	TraceEventTypeError,
	TraceEventTypeInfo,
	TraceEventTypeWarning,
}

// IsValid reports whether the value matches the canonical trace event enum.
func (t TraceEventType) IsValid() bool {
	for _, candidate := range validTraceEventTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsTerminal reports whether an event of this type closes the transaction.
func (t TraceEventType) IsTerminal() bool {
	switch t {
	case TraceEventTypeCompleted, TraceEventTypeFailed, TraceEventTypeCanceled:
		return true
	}
	return false
}

// TraceEventTypes returns the canonical values in declaration order.
func TraceEventTypes() []TraceEventType {
	out := make([]TraceEventType, len(validTraceEventTypes))
	copy(out, validTraceEventTypes)
	return out
}

// ParseTraceEventType converts raw input into TraceEventType.
func ParseTraceEventType(value string) (TraceEventType, error) {
	for _, candidate := range validTraceEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trace event type %q", value)
}
