// Package search provides full-text search over thread messages using Bleve.
// It backs the admin triage screen, combining free-text matching on message
// bodies with exact tag filtering.
package search

import (
	"github.com/ichigoapp/ichigo-server/internal/domain"
)

// MessageDocument is the indexed representation of a thread message.
type MessageDocument struct {
	ID          string   `json:"id"`
	ThreadID    string   `json:"thread_id"`
	UserID      string   `json:"user_id"`
	DisplayName string   `json:"display_name"`
	Text        string   `json:"text"`
	Tags        []string `json:"tags,omitempty"` // Tag ids, exact-matched
	IsMerged    bool     `json:"is_merged"`
	Timestamp   int64    `json:"timestamp"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *MessageDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":        d.ID,
		"thread_id": d.ThreadID,
		"text":      d.Text,
		"is_merged": d.IsMerged,
		"timestamp": d.Timestamp,
	}
	if d.UserID != "" {
		m["user_id"] = d.UserID
	}
	if d.DisplayName != "" {
		m["display_name"] = d.DisplayName
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	return m
}

// DocumentFromMessage builds an indexable document from a thread message.
func DocumentFromMessage(msg *domain.ThreadMessage) MessageDocument {
	return MessageDocument{
		ID:          msg.ID,
		ThreadID:    msg.ThreadID,
		UserID:      msg.UserID,
		DisplayName: msg.DisplayName,
		Text:        msg.Text,
		Tags:        msg.Tags,
		IsMerged:    msg.IsMerged,
		Timestamp:   msg.Timestamp.UnixMilli(),
	}
}
