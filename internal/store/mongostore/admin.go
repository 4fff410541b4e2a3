package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	"github.com/ichigoapp/ichigo-server/internal/store"
)

// CreateAdmin adds a target to the notification roster.
func (s *Store) CreateAdmin(ctx context.Context, target *domain.AdminNotificationTarget) error {
	if _, err := s.db.Collection(collAdmins).InsertOne(ctx, target); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrAlreadyExists
		}
		return storageErr("insert admin", err)
	}
	return nil
}

// UpdateAdmin replaces an existing roster entry.
func (s *Store) UpdateAdmin(ctx context.Context, target *domain.AdminNotificationTarget) error {
	res, err := s.db.Collection(collAdmins).ReplaceOne(ctx, bson.M{"id": target.ID}, target)
	if err != nil {
		return storageErr("replace admin", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrAdminNotFound
	}
	return nil
}

// DeleteAdmin removes a roster entry. Idempotent.
func (s *Store) DeleteAdmin(ctx context.Context, id string) error {
	if _, err := s.db.Collection(collAdmins).DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return storageErr("delete admin", err)
	}
	return nil
}

// ListAdmins returns the whole roster.
func (s *Store) ListAdmins(ctx context.Context) ([]*domain.AdminNotificationTarget, error) {
	return findAll[domain.AdminNotificationTarget](ctx, s.db.Collection(collAdmins), bson.M{}, nil)
}

// GetAdminSettings reads the triage settings singleton, falling back
// to defaults when it was never saved.
func (s *Store) GetAdminSettings(ctx context.Context) (*domain.AdminSettings, error) {
	var settings domain.AdminSettings
	err := s.db.Collection(collSystem).FindOne(ctx, bson.M{"_id": docAdminSettings}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.DefaultAdminSettings(), nil
	}
	if err != nil {
		return nil, storageErr("find admin settings", err)
	}
	return &settings, nil
}

// SaveAdminSettings upserts the triage settings singleton.
func (s *Store) SaveAdminSettings(ctx context.Context, settings *domain.AdminSettings) error {
	_, err := s.db.Collection(collSystem).UpdateOne(ctx,
		bson.M{"_id": docAdminSettings},
		bson.M{"$set": bson.M{
			"notificationsEnabled":    settings.NotificationsEnabled,
			"defaultNotificationType": settings.DefaultType,
			"updatedAt":               settings.UpdatedAt,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return storageErr("save admin settings", err)
	}
	return nil
}
