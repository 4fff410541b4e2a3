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

// CreateUser inserts the credential first so the unique email index
// rejects duplicates, then the user record. The credential is removed
// again if the user insert fails.
func (s *Store) CreateUser(ctx context.Context, user *domain.User, cred *domain.Credential) error {
	credCopy := *cred
	credCopy.Email = normalizeEmail(cred.Email)

	creds := s.db.Collection(collCreds)
	if _, err := creds.InsertOne(ctx, credCopy); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrEmailExists
		}
		return storageErr("insert credential", err)
	}

	if _, err := s.db.Collection(collUsers).InsertOne(ctx, user); err != nil {
		_, _ = creds.DeleteOne(ctx, bson.M{"email": credCopy.Email})
		return storageErr("insert user", err)
	}

	return nil
}

// GetUser retrieves a user by uid.
func (s *Store) GetUser(ctx context.Context, uid string) (*domain.User, error) {
	var u domain.User
	err := s.db.Collection(collUsers).FindOne(ctx, bson.M{"uid": uid}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, storageErr("find user", err)
	}
	return &u, nil
}

// GetUserByEmail resolves a user through the credential collection.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	cred, err := s.GetCredential(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, cred.UserID)
}

// UpdateUser overwrites an existing user record.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	res, err := s.db.Collection(collUsers).ReplaceOne(ctx, bson.M{"uid": user.UID}, user)
	if err != nil {
		return storageErr("replace user", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

// ListUsers returns all users, unsorted.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return findAll[domain.User](ctx, s.db.Collection(collUsers), bson.M{}, nil)
}

// GetCredential retrieves the credential record for an email.
func (s *Store) GetCredential(ctx context.Context, email string) (*domain.Credential, error) {
	var cred domain.Credential
	err := s.db.Collection(collCreds).
		FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&cred)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, storageErr("find credential", err)
	}
	return &cred, nil
}

// GetCurrentUserID reads the durable session slot.
func (s *Store) GetCurrentUserID(ctx context.Context) (string, error) {
	var doc struct {
		UID string `bson:"uid"`
	}
	err := s.db.Collection(collSystem).FindOne(ctx, bson.M{"_id": docCurrentUser}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", storageErr("find session slot", err)
	}
	return doc.UID, nil
}

// SaveCurrentUserID upserts the session slot. Saving "" clears it.
func (s *Store) SaveCurrentUserID(ctx context.Context, uid string) error {
	_, err := s.db.Collection(collSystem).UpdateOne(ctx,
		bson.M{"_id": docCurrentUser},
		bson.M{"$set": bson.M{"uid": uid}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return storageErr("save session slot", err)
	}
	return nil
}

// GetUserSettings returns the stored settings for a user, or an empty
// record when the user never saved any.
func (s *Store) GetUserSettings(ctx context.Context, uid string) (*domain.UserSettings, error) {
	var settings domain.UserSettings
	err := s.db.Collection(collSettings).FindOne(ctx, bson.M{"userId": uid}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &domain.UserSettings{UserID: uid}, nil
	}
	if err != nil {
		return nil, storageErr("find settings", err)
	}
	return &settings, nil
}

// SaveUserSettings upserts the whole settings record for a user.
func (s *Store) SaveUserSettings(ctx context.Context, settings *domain.UserSettings) error {
	_, err := s.db.Collection(collSettings).ReplaceOne(ctx,
		bson.M{"userId": settings.UserID},
		settings,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return storageErr("save settings", err)
	}
	return nil
}

// findAll drains a cursor for filter into a typed slice.
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]*T, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = coll.Find(ctx, filter, opts)
	} else {
		cursor, err = coll.Find(ctx, filter)
	}
	if err != nil {
		return nil, storageErr("find", err)
	}
	defer cursor.Close(ctx)

	var out []*T
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return nil, storageErr("decode", err)
		}
		out = append(out, &item)
	}
	if err := cursor.Err(); err != nil {
		return nil, storageErr("cursor", err)
	}
	return out, nil
}
