package server

import (
	"encoding/json"

	"catalystcore/internal/minigame"
)

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// OutboundMessage packages queued websocket events.
type OutboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type knobSummaryDTO struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value any    `json:"value"`
}

type briefingDTO struct {
	SessionID    string           `json:"session_id"`
	GameID       string           `json:"game_id"`
	GameName     string           `json:"game_name"`
	Tagline      string           `json:"tagline"`
	Briefing     string           `json:"briefing"`
	Mode         string           `json:"mode"`
	Warning      string           `json:"warning,omitempty"`
	Player       string           `json:"player"`
	IssuedBy     string           `json:"issued_by,omitempty"`
	DeploymentID string           `json:"deployment_id,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	Config       []knobSummaryDTO `json:"config"`
	ReplayLabel  string           `json:"replay_label,omitempty"`
}

type stateDTO struct {
	Phase   string `json:"phase"`
	Attempt int    `json:"attempt"`
	View    any    `json:"view"`
}

type outcomeDTO struct {
	Success        *bool  `json:"success"`
	Heading        string `json:"heading"`
	Body           string `json:"body"`
	Note           string `json:"note,omitempty"`
	Detail         string `json:"detail,omitempty"`
	DismissMessage string `json:"dismiss_message,omitempty"`
	AutoDismiss    bool   `json:"auto_dismiss"`
	ReplayLabel    string `json:"replay_label"`
}

type toastDTO struct {
	Level   string `json:"level"` // success, error, info
	Message string `json:"message"`
	Cue     string `json:"cue,omitempty"` // forwarded to the optional playTone hook
}

type noticeDTO struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type cueDTO struct {
	Name string `json:"name"`
}

type errorDTO struct {
	Message string `json:"message"`
	Fatal   bool   `json:"fatal,omitempty"`
}

type dismissedDTO struct {
	Message string `json:"message"`
}

type gameListDTO struct {
	Games []gameInfoDTO `json:"games"`
}

type gameInfoDTO struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Tagline  string          `json:"tagline"`
	Briefing string          `json:"briefing"`
	Knobs    []minigame.Knob `json:"knobs"`
}

type statusDTO struct {
	Name     string `json:"name"`
	Games    int    `json:"games"`
	Sessions int    `json:"sessions"`
}
