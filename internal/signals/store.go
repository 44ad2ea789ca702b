// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

// Package signals is the visitor signal store: a BadgerDB-backed record of
// the products each session viewed, added to cart and purchased.
//
// Profiles are written by applying interaction events and read by the
// resolver for personalization. Each profile expires after a period of
// inactivity.
package signals

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/bundlecraft/internal/models"
)

const profileKeyPrefix = "profile:"

// maxConflictRetries bounds retries of a profile update that lost a
// concurrent write.
const maxConflictRetries = 5

// ErrInvalidEvent is returned for events without a session or product.
var ErrInvalidEvent = errors.New("signals: invalid event")

// Config configures a Store.
type Config struct {
	Path          string
	InMemory      bool
	ProfileTTL    time.Duration
	MaxListLength int
}

// Store persists visitor profiles.
type Store struct {
	// writeMu serializes read-modify-write updates from this process;
	// conflicts with other writers are retried.
	writeMu sync.Mutex

	db       *badger.DB
	ttl      time.Duration
	maxList  int
	inMemory bool
	logger   zerolog.Logger
}

// profileRecord is the stored form of a profile.
type profileRecord struct {
	Viewed    []string  `json:"viewed"`
	Carted    []string  `json:"carted"`
	Purchased []string  `json:"purchased"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Open opens (or creates) the store.
func Open(cfg Config, logger zerolog.Logger) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, fmt.Errorf("signals: path is required unless in-memory")
	}
	if cfg.MaxListLength <= 0 {
		cfg.MaxListLength = 50
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open signal store: %w", err)
	}

	return &Store{
		db:       db,
		ttl:      cfg.ProfileTTL,
		maxList:  cfg.MaxListLength,
		inMemory: cfg.InMemory,
		logger:   logger.With().Str("component", "signals").Logger(),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func profileKey(sessionID string) []byte {
	return []byte(profileKeyPrefix + sessionID)
}

// FetchUserProfile returns the stored profile, or nil when the session is
// unknown or expired.
func (s *Store) FetchUserProfile(ctx context.Context, sessionID string) (*models.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sessionID == "" {
		return nil, nil
	}

	var rec *profileRecord
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		rec, err = readProfile(txn, sessionID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	if rec == nil {
		return nil, nil
	}

	return &models.UserProfile{
		ViewedProducts:    rec.Viewed,
		CartedProducts:    rec.Carted,
		PurchasedProducts: rec.Purchased,
	}, nil
}

// Apply folds one interaction into the session's profile:
//   - view appends to the viewed list
//   - cart_add appends to the carted list
//   - purchase appends to the purchased list and removes the product from
//     the carted list
//
// Re-recorded products move to the end of their list. Lists keep the most
// recent MaxListLength entries. recommendation_served events are ignored.
func (s *Store) Apply(ctx context.Context, ev *models.InteractionEvent) error {
	if ev == nil || ev.SessionID == "" || ev.ProductID == "" {
		return ErrInvalidEvent
	}
	if ev.Kind == models.InteractionRecommendationServed {
		return nil
	}
	if !ev.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, ev.Kind)
	}

	at := ev.OccurredAt
	if at.IsZero() {
		at = time.Now()
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = s.db.Update(func(txn *badger.Txn) error {
			rec, err := readProfile(txn, ev.SessionID)
			if err != nil {
				return err
			}
			if rec == nil {
				rec = &profileRecord{}
			}

			switch ev.Kind {
			case models.InteractionView:
				rec.Viewed = s.pushRecent(rec.Viewed, ev.ProductID)
			case models.InteractionCartAdd:
				rec.Carted = s.pushRecent(rec.Carted, ev.ProductID)
			case models.InteractionPurchase:
				rec.Purchased = s.pushRecent(rec.Purchased, ev.ProductID)
				rec.Carted = remove(rec.Carted, ev.ProductID)
			}
			if at.After(rec.UpdatedAt) {
				rec.UpdatedAt = at
			}
			return s.writeProfile(txn, ev.SessionID, rec)
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("apply %s for session: %w", ev.Kind, err)
	}
	return nil
}

// Forget deletes a session's profile.
func (s *Store) Forget(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(profileKey(sessionID))
	})
}

// RunGC reclaims value log space. It is a no-op for in-memory stores.
func (s *Store) RunGC() error {
	if s.inMemory {
		return nil
	}
	err := s.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}

func readProfile(txn *badger.Txn, sessionID string) (*profileRecord, error) {
	item, err := txn.Get(profileKey(sessionID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec profileRecord
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	})
	if err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &rec, nil
}

func (s *Store) writeProfile(txn *badger.Txn, sessionID string, rec *profileRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	entry := badger.NewEntry(profileKey(sessionID), data)
	if s.ttl > 0 {
		entry = entry.WithTTL(s.ttl)
	}
	return txn.SetEntry(entry)
}

// pushRecent appends id, moving it to the end if present, and trims the
// oldest entries beyond the list cap.
func (s *Store) pushRecent(list []string, id string) []string {
	list = append(remove(list, id), id)
	if len(list) > s.maxList {
		list = list[len(list)-s.maxList:]
	}
	return list
}

func remove(list []string, id string) []string {
	out := list[:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
