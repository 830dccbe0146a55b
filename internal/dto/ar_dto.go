package dto

import (
	"encoding/json"
	"time"

	"ar-storefront-be/pkg/ar"
)

// AR websocket message types.
const (
	ARMessageRequestSession = "request_session"
	ARMessageFrame          = "frame"
	ARMessageSelect         = "select"
	ARMessageEnd            = "end"

	ARMessageSession    = "session"
	ARMessageReticle    = "reticle"
	ARMessagePlacements = "placements"
	ARMessageError      = "error"
)

// ARInbound is a client message; Data is decoded according to Type.
type ARInbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type ARRequestSession struct {
	Supported bool `json:"supported"`
	Granted   bool `json:"granted"`
}

type AROutbound struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type ARSessionState struct {
	SessionID string `json:"sessionId"`
	State     string `json:"state"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

type ARPlacements struct {
	Placements []ar.Placement `json:"placements"`
	Objects    []ar.Object    `json:"objects"`
}

type ARSessionResponse struct {
	Id          string      `json:"id"`
	ProductCode string      `json:"productCode"`
	Snapshot    ar.Snapshot `json:"snapshot"`
	StartedAt   time.Time   `json:"startedAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
