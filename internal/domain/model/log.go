package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LogEntry is one document of the logs collection. The access log fills the
// request fields; audit records also carry the actor and an action type such
// as "scaffold_calculate" or "stock_withdraw".
type LogEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	Level     string             `bson:"level" json:"level"`
	Message   string             `bson:"message" json:"message"`
	Error     string             `bson:"error,omitempty" json:"error,omitempty"`

	TenantID   string `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	UserID     string `bson:"user_id,omitempty" json:"user_id,omitempty"`
	ActionType string `bson:"action_type,omitempty" json:"action_type,omitempty"`

	RequestID  string `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Method     string `bson:"method,omitempty" json:"method,omitempty"`
	Path       string `bson:"path,omitempty" json:"path,omitempty"`
	StatusCode int    `bson:"status_code,omitempty" json:"status_code,omitempty"`
	Duration   int64  `bson:"duration_ms,omitempty" json:"duration_ms,omitempty"`
	IP         string `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent  string `bson:"user_agent,omitempty" json:"user_agent,omitempty"`

	Fields map[string]interface{} `bson:"fields,omitempty" json:"fields,omitempty"`
}

// Stamp assigns an ID and a UTC timestamp when they are unset.
func (e *LogEntry) Stamp() {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
}

// Annotate copies fields into the entry, overwriting existing keys. The
// caller keeps ownership of its map.
func (e *LogEntry) Annotate(fields map[string]interface{}) *LogEntry {
	if len(fields) == 0 {
		return e
	}
	if e.Fields == nil {
		e.Fields = make(map[string]interface{}, len(fields))
	}
	for k, v := range fields {
		e.Fields[k] = v
	}
	return e
}

// LogQueryOptions filters the logs collection. Empty strings and nil times
// match everything; Path matches as a case-insensitive substring.
type LogQueryOptions struct {
	RequestID  string
	Level      string
	Method     string
	Path       string
	TenantID   string
	UserID     string
	ActionType string
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int
	Skip       int
}

// InvertedWindow reports whether the time window ends before it starts.
func (o LogQueryOptions) InvertedWindow() bool {
	return o.StartTime != nil && o.EndTime != nil && o.EndTime.Before(*o.StartTime)
}
