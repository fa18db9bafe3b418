// Package store persists user feedback about conversations in a local bolt
// database. Conversation history itself stays in memory and is never written
// here.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var feedbackBucket = []byte("feedback")

// Feedback is one rating a user left about a conversation.
type Feedback struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type Store interface {
	SaveFeedback(f Feedback) error
	RecentFeedback(limit int) ([]Feedback, error)
	Close() error
}

type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(feedbackBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating feedback bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// SaveFeedback fills in the id and timestamp when missing and persists f.
// Keys sort by creation time, so the newest entries sit at the end of the
// bucket.
func (s *BoltStore) SaveFeedback(f Feedback) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	key := fmt.Sprintf("%020d#%s", f.CreatedAt.UnixNano(), f.ID)

	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(f)
		if err != nil {
			return err
		}
		return tx.Bucket(feedbackBucket).Put([]byte(key), data)
	})
}

// RecentFeedback returns up to limit entries, newest first. A non-positive
// limit returns nothing.
func (s *BoltStore) RecentFeedback(limit int) ([]Feedback, error) {
	var out []Feedback
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(feedbackBucket).Cursor()
		for k, v := c.Last(); k != nil && len(out) < limit; k, v = c.Prev() {
			var f Feedback
			if err := json.Unmarshal(v, &f); err != nil {
				return err
			}
			out = append(out, f)
		}
		return nil
	})
	return out, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
