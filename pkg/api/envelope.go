// Package api holds the simple action envelope shared by the backend and the
// client: {status: "ok"|"no", message, data}.
package api

import "encoding/json"

const (
	StatusOK = "ok"
	StatusNo = "no"
)

// Envelope is the response of show/store/update/delete style endpoints.
type Envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// OK reports whether the backend accepted the action.
func (e Envelope) OK() bool { return e.Status == StatusOK }

// Created is the data payload returned by store endpoints.
type Created struct {
	PID string `json:"pid"`
}

// Summary is the payload of the per-resource aggregate endpoint.
type Summary struct {
	Today     Bucket `json:"today"`
	ThisWeek  Bucket `json:"this_week"`
	ThisMonth Bucket `json:"this_month"`
}

type Bucket struct {
	Count int64 `json:"count"`
	Total int64 `json:"total"`
}
