package api

import (
	"encoding/json"
	"time"
)

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type EntryRequest struct {
	Photo string `json:"photo"`
	Note  string `json:"note"`
}

type ToolRequest struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Frame is one websocket push
type Frame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type ImportRequest struct {
	File string `json:"file"`
}
