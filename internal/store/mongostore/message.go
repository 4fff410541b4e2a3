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

// messageDoc carries the sequence number alongside the message so the
// thread can be read back in insertion order.
type messageDoc struct {
	domain.ThreadMessage `bson:",inline"`
	Seq                  int64 `bson:"seq"`
}

// AppendMessage appends a message to its thread. The referenced
// question is not checked; orphaned messages are tolerated by readers.
func (s *Store) AppendMessage(ctx context.Context, m *domain.ThreadMessage) error {
	doc := messageDoc{ThreadMessage: *m, Seq: s.nextSeq()}
	if _, err := s.db.Collection(collMessages).InsertOne(ctx, doc); err != nil {
		return storageErr("insert message", err)
	}
	return nil
}

// GetMessage finds one message within a thread.
func (s *Store) GetMessage(ctx context.Context, threadID, messageID string) (*domain.ThreadMessage, error) {
	var doc messageDoc
	err := s.db.Collection(collMessages).
		FindOne(ctx, bson.M{"threadId": threadID, "id": messageID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrMessageNotFound
	}
	if err != nil {
		return nil, storageErr("find message", err)
	}
	return &doc.ThreadMessage, nil
}

// UpdateMessage rewrites a message's triage metadata, keeping its
// sequence number and therefore its place in the thread.
func (s *Store) UpdateMessage(ctx context.Context, m *domain.ThreadMessage) error {
	res, err := s.db.Collection(collMessages).UpdateOne(ctx,
		bson.M{"threadId": m.ThreadID, "id": m.ID},
		bson.M{"$set": bson.M{
			"tags":       m.Tags,
			"mergedInto": m.MergedInto,
			"isMerged":   m.IsMerged,
		}},
	)
	if err != nil {
		return storageErr("update message", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrMessageNotFound
	}
	return nil
}

// ListMessages returns a thread's messages in insertion order.
func (s *Store) ListMessages(ctx context.Context, threadID string) ([]*domain.ThreadMessage, error) {
	docs, err := findAll[messageDoc](ctx, s.db.Collection(collMessages),
		bson.M{"threadId": threadID},
		options.Find().SetSort(bson.D{{Key: "seq", Value: 1}, {Key: "id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}

	messages := make([]*domain.ThreadMessage, 0, len(docs))
	for _, d := range docs {
		m := d.ThreadMessage
		messages = append(messages, &m)
	}
	return messages, nil
}
