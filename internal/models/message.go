package models

// StreamMessage is one WebSocket delivery to a connected viewer. Frame is
// a base64-encoded JPEG and is omitted when the session is idle or an
// iteration failed; Status carries "waiting" while idle and Error carries
// a terminal or per-iteration failure description.
type StreamMessage struct {
	Frame     string        `json:"frame,omitempty"`
	Counts    *VehicleCount `json:"counts,omitempty"`
	Timestamp string        `json:"timestamp"`
	Status    string        `json:"status,omitempty"`
	Error     string        `json:"error,omitempty"`
}
