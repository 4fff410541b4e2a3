package domain

import "time"

// QuestionStatus is the lifecycle state of a consultation question.
type QuestionStatus string

const (
	// StatusPending means the question was created but admins have not
	// been notified yet. Questions only hold this state transiently.
	StatusPending QuestionStatus = "pending"
	// StatusAdminNotified means admins have been notified and the
	// question is awaiting a reply in its thread.
	StatusAdminNotified QuestionStatus = "admin-notified"
	// StatusResolved means the asking user closed the question.
	StatusResolved QuestionStatus = "resolved"
)

// Valid reports whether s is a known lifecycle state.
func (s QuestionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAdminNotified, StatusResolved:
		return true
	}
	return false
}

// CanTransitionTo reports whether the move from s to next is legal.
// The lifecycle is strictly one-way: pending -> admin-notified ->
// resolved, with pending -> resolved also allowed. Re-applying the
// current state is permitted so writes stay idempotent.
func (s QuestionStatus) CanTransitionTo(next QuestionStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusAdminNotified || next == StatusResolved
	case StatusAdminNotified:
		return next == StatusResolved
	}
	return false
}

// Question is a user-submitted consultation request. Author fields are
// denormalized at creation time so a thread renders without a user join.
type Question struct {
	ID            string         `json:"id" bson:"id"`
	Category      string         `json:"category" bson:"category"`
	Title         string         `json:"title" bson:"title"`
	Text          string         `json:"text" bson:"text"`
	ImageURL      string         `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	UserID        string         `json:"userId" bson:"userId"`
	UserEmail     string         `json:"userEmail" bson:"userEmail"`
	DisplayName   string         `json:"displayName" bson:"displayName"`
	CreatedAt     time.Time      `json:"createdAt" bson:"createdAt"`
	Status        QuestionStatus `json:"status" bson:"status"`
	AdminNotified bool           `json:"adminNotified" bson:"adminNotified"`
	ResolvedAt    *time.Time     `json:"resolvedAt,omitempty" bson:"resolvedAt,omitempty"`
}

// IsResolved returns true once the question reached its terminal state.
func (q *Question) IsResolved() bool {
	return q.Status == StatusResolved
}

// QuestionPatch carries a partial update. Nil fields leave the stored
// value untouched.
type QuestionPatch struct {
	Category      *string
	Title         *string
	Text          *string
	ImageURL      *string
	Status        *QuestionStatus
	AdminNotified *bool
	ResolvedAt    *time.Time
}

// Apply merges the patch onto q, later fields win.
func (p *QuestionPatch) Apply(q *Question) {
	if p.Category != nil {
		q.Category = *p.Category
	}
	if p.Title != nil {
		q.Title = *p.Title
	}
	if p.Text != nil {
		q.Text = *p.Text
	}
	if p.ImageURL != nil {
		q.ImageURL = *p.ImageURL
	}
	if p.Status != nil {
		q.Status = *p.Status
	}
	if p.AdminNotified != nil {
		q.AdminNotified = *p.AdminNotified
	}
	if p.ResolvedAt != nil {
		q.ResolvedAt = p.ResolvedAt
	}
}
