package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/berfenger/felicity2mqtt/internal/core/domain"
	"github.com/berfenger/felicity2mqtt/internal/core/port"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

var (
	dayStateBucket = []byte("day_state")
	optionsBucket  = []byte("options")
)

// currentKey holds the only record of each bucket.
var currentKey = []byte("current")

type BoltStateStore struct {
	db     *bolt.DB
	mu     sync.Mutex
	logger *zap.Logger
}

var _ port.StateStore = (*BoltStateStore)(nil)

func OpenBoltStateStore(file string, logger *zap.Logger) (*BoltStateStore, error) {
	db, err := bolt.Open(file, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("could not open state store %s: %w", file, err)
	}
	s := &BoltStateStore{
		db:     db,
		logger: logger.With(zap.String("store", file)),
	}
	if err := db.Update(s.init); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *BoltStateStore) init(tx *bolt.Tx) error {
	for _, name := range [][]byte{dayStateBucket, optionsBucket} {
		if _, err := tx.CreateBucketIfNotExists(name); err != nil {
			return fmt.Errorf("could not create bucket %s: %w", name, err)
		}
	}
	return nil
}

// Close closes the store. It is safe to call more than once.
func (s *BoltStateStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *BoltStateStore) LoadDayState() (*domain.DayState, error) {
	var state domain.DayState
	found, err := s.get(dayStateBucket, &state)
	if err != nil || !found {
		return nil, err
	}
	return &state, nil
}

func (s *BoltStateStore) SaveDayState(state domain.DayState) error {
	return s.put(dayStateBucket, state)
}

func (s *BoltStateStore) LoadOptions() (*domain.ControlOptions, error) {
	var options domain.ControlOptions
	found, err := s.get(optionsBucket, &options)
	if err != nil || !found {
		return nil, err
	}
	return &options, nil
}

func (s *BoltStateStore) SaveOptions(options domain.ControlOptions) error {
	return s.put(optionsBucket, options)
}

func (s *BoltStateStore) get(bucket []byte, v any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return false, bolt.ErrDatabaseNotOpen
	}
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("no %s bucket", bucket)
		}
		data := b.Get(currentKey)
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, v)
	})
	if err != nil {
		return false, fmt.Errorf("could not read %s: %w", bucket, err)
	}
	return found, nil
}

func (s *BoltStateStore) put(bucket []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("no %s bucket", bucket)
		}
		return b.Put(currentKey, data)
	})
	if err != nil {
		return fmt.Errorf("could not write %s: %w", bucket, err)
	}
	s.logger.Debug("state saved", zap.ByteString("bucket", bucket), zap.Int("bytes", len(data)))
	return nil
}
