package domain

import "time"

// UserSettings holds per-user preferences, keyed by uid. Saves are
// upsert-merge: only the fields present in the incoming patch change,
// everything else keeps its stored value.
type UserSettings struct {
	UserID              string    `json:"userId" bson:"userId"`
	Age                 *int      `json:"age,omitempty" bson:"age,omitempty"`
	ConsultationsPerDay *int      `json:"consultationsPerDay,omitempty" bson:"consultationsPerDay,omitempty"`
	EmailNotification   *bool     `json:"emailNotification,omitempty" bson:"emailNotification,omitempty"`
	UpdatedAt           time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Merge applies the non-nil fields of patch onto s and stamps UpdatedAt.
func (s *UserSettings) Merge(patch *UserSettings) {
	if patch.Age != nil {
		s.Age = patch.Age
	}
	if patch.ConsultationsPerDay != nil {
		s.ConsultationsPerDay = patch.ConsultationsPerDay
	}
	if patch.EmailNotification != nil {
		s.EmailNotification = patch.EmailNotification
	}
	s.UpdatedAt = time.Now()
}
