// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package models

import (
	"time"
)

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse wraps every JSON body except the UI view at
// /api/recommendations, which mirrors the historical frontend contract.
//
//	{"status":"success","data":{...},"metadata":{"timestamp":"2026-01-10T10:00:01Z","query_time_ms":3}}
//	{"status":"error","data":null,"metadata":{...},"error":{"code":"NO_DATA","message":"..."}}
type APIResponse struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata is attached to every envelope.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is a machine-readable code plus a message safe to show clients.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NewSuccess wraps data. A zero start omits query_time_ms.
func NewSuccess(data any, start time.Time) *APIResponse {
	md := Metadata{Timestamp: time.Now().UTC()}
	if !start.IsZero() {
		md.QueryTimeMS = time.Since(start).Milliseconds()
	}
	return &APIResponse{Status: StatusSuccess, Data: data, Metadata: md}
}

// NewFailure builds an error envelope.
func NewFailure(code, message string) *APIResponse {
	return &APIResponse{
		Status:   StatusError,
		Metadata: Metadata{Timestamp: time.Now().UTC()},
		Error:    &APIError{Code: code, Message: message},
	}
}
