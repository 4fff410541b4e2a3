package domain

import (
	"slices"
	"time"
)

// SharedThreadID is the well-known thread holding the open consultation
// log that predates per-question threads. It behaves like any other
// thread; admins tag and merge its messages during triage.
const SharedThreadID = "thread-shared"

// ThreadMessage is one turn in a thread. Messages are append-only;
// triage may later attach tags or fold a message into another one, but
// the text itself never changes.
type ThreadMessage struct {
	ID          string    `json:"id" bson:"id"`
	ThreadID    string    `json:"threadId" bson:"threadId"`
	Text        string    `json:"text" bson:"text"`
	ImageURL    string    `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	UserID      string    `json:"userId" bson:"userId"`
	UserEmail   string    `json:"userEmail" bson:"userEmail"`
	DisplayName string    `json:"displayName" bson:"displayName"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`

	// Triage metadata, only ever set by admins.
	Tags       []string `json:"tags,omitempty" bson:"tags,omitempty"`
	MergedInto string   `json:"mergedInto,omitempty" bson:"mergedInto,omitempty"`
	IsMerged   bool     `json:"isMerged,omitempty" bson:"isMerged,omitempty"`
}

// HasTag reports whether the message carries the given tag id.
func (m *ThreadMessage) HasTag(tagID string) bool {
	return slices.Contains(m.Tags, tagID)
}

// AddTag attaches a tag id if not already present. Returns true when
// the message changed.
func (m *ThreadMessage) AddTag(tagID string) bool {
	if m.HasTag(tagID) {
		return false
	}
	m.Tags = append(m.Tags, tagID)
	return true
}

// RemoveTag detaches a tag id. Returns true when the message changed.
func (m *ThreadMessage) RemoveTag(tagID string) bool {
	before := len(m.Tags)
	m.Tags = slices.DeleteFunc(m.Tags, func(id string) bool { return id == tagID })
	return len(m.Tags) != before
}

// MergeInto marks this message as folded into target, carrying no text
// of its own anymore from the triage screen's point of view.
func (m *ThreadMessage) MergeInto(targetID string) {
	m.MergedInto = targetID
	m.IsMerged = true
}
