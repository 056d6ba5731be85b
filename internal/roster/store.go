package roster

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "roster"

// ErrNotStored indicates no roster is stored for the visitor.
var ErrNotStored = errors.New("roster: not stored")

// Store keeps each visitor's roster in Redis for the lifetime of a page view.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore instantiates the store helper.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Get loads the stored roster for a visitor.
func (s *Store) Get(ctx context.Context, visitor string) (Roster, error) {
	if s == nil || s.client == nil {
		return Roster{}, ErrNotStored
	}
	payload, err := s.client.Get(ctx, key(visitor)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Roster{}, ErrNotStored
	}
	if err != nil {
		return Roster{}, err
	}
	var r Roster
	if err := json.Unmarshal(payload, &r); err != nil {
		return Roster{}, err
	}
	return r, nil
}

// Put stores the roster, replacing whatever the visitor had.
func (s *Store) Put(ctx context.Context, visitor string, r Roster) error {
	if s == nil || s.client == nil {
		return nil
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(visitor), raw, s.ttl).Err()
}

// Fetch returns the stored roster or populates it using the loader.
func (s *Store) Fetch(ctx context.Context, visitor string, loader func(context.Context) (Roster, error)) (Roster, error) {
	if loader == nil {
		return Roster{}, errors.New("roster: loader required")
	}
	r, err := s.Get(ctx, visitor)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, ErrNotStored) {
		return Roster{}, err
	}
	r, err = loader(ctx)
	if err != nil {
		return Roster{}, err
	}
	if err := s.Put(ctx, visitor, r); err != nil {
		return Roster{}, err
	}
	return r, nil
}

func key(visitor string) string {
	if visitor == "" {
		visitor = "-"
	}
	return strings.Join([]string{keyPrefix, visitor}, ":")
}
