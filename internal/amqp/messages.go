package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Document kinds carried by DocumentSavedMessage.
const (
	KindAttendance = "attendance"
	KindReport     = "report"
)

var ErrInvalidMessage = errors.New("invalid message")

// DocumentSavedMessage announces that a document was written by the register.
// The worker re-reads the document itself; the message carries no cells.
type DocumentSavedMessage struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Kind      string    `json:"kind"`
	Backend   string    `json:"backend,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewDocumentSavedMessage(path, kind, backend string) *DocumentSavedMessage {
	return &DocumentSavedMessage{
		ID:        uuid.NewString(),
		Path:      path,
		Kind:      kind,
		Backend:   backend,
		Timestamp: time.Now(),
	}
}

// Validate reports ErrInvalidMessage for a missing path or an unknown kind.
func (m *DocumentSavedMessage) Validate() error {
	if m.Path == "" {
		return fmt.Errorf("%w: missing path", ErrInvalidMessage)
	}
	if m.Kind != KindAttendance && m.Kind != KindReport {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidMessage, m.Kind)
	}
	return nil
}

func (m *DocumentSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DocumentSavedMessageFromJSON decodes and validates a message body.
func DocumentSavedMessageFromJSON(data []byte) (*DocumentSavedMessage, error) {
	var msg DocumentSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
