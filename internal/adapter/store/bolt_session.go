package store

import (
	"encoding/json"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"

	"insightpdf/internal/domain"
)

var bucketSessions = []byte("sessions")

// BoltSessionStore persists one serialized index per session id in a
// bbolt database. bbolt's single-writer transactions give the atomic
// put/get semantics the pipeline relies on: a reader never observes a
// partially written record, and a put fully replaces the prior value.
type BoltSessionStore struct {
	db *bbolt.DB
}

func NewBoltSessionStore(path string) (*BoltSessionStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open session db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSessions)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sessions bucket: %w", err)
	}

	return &BoltSessionStore{db: db}, nil
}

func (s *BoltSessionStore) Put(record domain.SessionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", record.ID, err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSessions).Put([]byte(record.ID), data)
	})
}

func (s *BoltSessionStore) Get(id string) (domain.SessionRecord, error) {
	var record domain.SessionRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSessions).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
		}
		return json.Unmarshal(data, &record)
	})
	return record, err
}

func (s *BoltSessionStore) List() ([]domain.SessionRecord, error) {
	var records []domain.SessionRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSessions).ForEach(func(k, v []byte) error {
			var record domain.SessionRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("corrupt session record %s: %w", k, err)
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

func (s *BoltSessionStore) Delete(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSessions).Delete([]byte(id))
	})
}

func (s *BoltSessionStore) Close() error {
	return s.db.Close()
}
