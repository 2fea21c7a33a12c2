package event

import (
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event wraps a domain payload with routing metadata.
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Payload   any       `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// New creates an Event with a generated ID and the name derived from the
// payload's type, e.g. a UserSwitched struct yields the name "UserSwitched".
func New(payload any) Event {
	return Event{
		ID:        uuid.New().String(),
		Name:      NameOf(payload),
		Payload:   payload,
		CreatedAt: time.Now(),
	}
}

// NameOf derives the event name from a payload instance.
// Pointer types resolve to their element type name.
func NameOf(payload any) string {
	t := reflect.TypeOf(payload)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		// Anonymous types fall back to the full type string.
		name = strings.TrimPrefix(t.String(), "*")
	}
	return name
}
