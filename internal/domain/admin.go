package domain

import "time"

// NotificationType selects how an admin wants to hear about new
// questions.
type NotificationType string

const (
	// NotifyRealtime delivers a notification per question as it arrives.
	NotifyRealtime NotificationType = "realtime"
	// NotifyDigest batches notifications on a fixed interval.
	NotifyDigest NotificationType = "digest"
)

// AdminNotificationTarget is one entry on the notification roster.
// The roster is independent of the User table; targets are matched by
// email only and emails are not required to be unique.
type AdminNotificationTarget struct {
	ID               string           `json:"id" bson:"id"`
	Email            string           `json:"email" bson:"email"`
	NotificationType NotificationType `json:"notificationType" bson:"notificationType"`
	// NotificationInterval is the digest period in minutes. Zero for
	// realtime targets.
	NotificationInterval int       `json:"notificationInterval,omitempty" bson:"notificationInterval,omitempty"`
	CreatedAt            time.Time `json:"createdAt" bson:"createdAt"`
}

// AdminSettings is the singleton configuration for the triage side of
// the system.
type AdminSettings struct {
	NotificationsEnabled bool             `json:"notificationsEnabled" bson:"notificationsEnabled"`
	DefaultType          NotificationType `json:"defaultNotificationType" bson:"defaultNotificationType"`
	UpdatedAt            time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// DefaultAdminSettings returns the settings used before an admin ever
// saves the singleton.
func DefaultAdminSettings() *AdminSettings {
	return &AdminSettings{
		NotificationsEnabled: true,
		DefaultType:          NotifyRealtime,
	}
}
