package model

// EventType is the type field of messages pushed to stream subscribers.
type EventType string

const (
	EventConnected       EventType = "connected"
	EventPing            EventType = "ping"
	EventReadinessUpdate EventType = "readiness_update"
	EventClassEnded      EventType = "class_ended"
)

// StreamEvent is a stream message without a body (connected, ping, class_ended).
type StreamEvent struct {
	Type      EventType `json:"type"`
	UUID      string    `json:"uuid,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

// ReadinessEvent is published after every readiness change of a room.
type ReadinessEvent struct {
	Type         EventType              `json:"type"`
	UUID         string                 `json:"uuid"`
	Participants []ParticipantReadiness `json:"participants"`
	Timestamp    int64                  `json:"timestamp"`
}
