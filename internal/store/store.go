package store

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var targetsBucket = []byte("targets")

// State is the per-target data that survives a session: the pagination
// anchor, the working-copy base at discovery time, and whether the target
// was added by the user (user-added targets persist across refresh).
type State struct {
	ID           string `json:"id,omitempty"`
	CommitFrom   string `json:"commitFrom"`
	BaseRevision int    `json:"baseRevision,omitempty"`
	UserAdded    bool   `json:"userAdded,omitempty"`
	Order        int    `json:"order"`
}

// Store persists target state in a bbolt database.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) the state database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(targetsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize state database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put saves state for a target key. User-added targets are assigned an ID
// on first save.
func (s *Store) Put(key string, state State) error {
	if state.UserAdded && state.ID == "" {
		state.ID = uuid.NewString()
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal target state: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(targetsBucket).Put([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save target state: %w", err)
	}
	return nil
}

// Get loads state for a target key. The second return is false when the
// key has never been saved.
func (s *Store) Get(key string) (State, bool, error) {
	var state State
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(targetsBucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &state)
	})
	if err != nil {
		return State{}, false, fmt.Errorf("failed to load target state: %w", err)
	}
	return state, found, nil
}

// List returns all saved target states keyed by target.
func (s *Store) List() (map[string]State, error) {
	states := make(map[string]State)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(targetsBucket).ForEach(func(k, v []byte) error {
			var state State
			if err := json.Unmarshal(v, &state); err != nil {
				return err
			}
			states[string(k)] = state
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list target state: %w", err)
	}
	return states, nil
}

// Delete removes state for a target key.
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(targetsBucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete target state: %w", err)
	}
	return nil
}
