package queue

import (
	"encoding/json"
	"fmt"
)

const (
	EventTypeVerdict = "verdict.generated"
	eventVersion     = 1
)

// VerdictEvent announces a generated verdict to downstream consumers.
// It carries scores only; narratives and résumé text stay in the session.
type VerdictEvent struct {
	Type           string   `json:"type"`
	Version        int      `json:"version"`
	SessionID      string   `json:"sessionId"`
	RequestID      string   `json:"requestId,omitempty"`
	Decision       string   `json:"decision"`
	Confidence     string   `json:"confidence"`
	CompositeScore float64  `json:"compositeScore"`
	Level1Score    *float64 `json:"level1Score"`
	Level2Score    *float64 `json:"level2Score"`
	Level3Score    *float64 `json:"level3Score"`
	GeneratedAt    string   `json:"generatedAt"`
}

// NewVerdictEvent fills in the type and version.
func NewVerdictEvent(e VerdictEvent) VerdictEvent {
	e.Type = EventTypeVerdict
	e.Version = eventVersion
	return e
}

// EncodeEvent returns the JSON representation of an event.
func EncodeEvent(e VerdictEvent) ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEvent parses a JSON payload and rejects unknown event types.
func DecodeEvent(payload []byte) (VerdictEvent, error) {
	var e VerdictEvent
	if err := json.Unmarshal(payload, &e); err != nil {
		return VerdictEvent{}, err
	}
	if e.Type != EventTypeVerdict {
		return VerdictEvent{}, fmt.Errorf("unexpected event type %q", e.Type)
	}
	return e, nil
}
