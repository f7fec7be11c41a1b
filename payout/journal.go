package payout

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
	bolt "go.etcd.io/bbolt"
)

var roundsBucket = []byte("rounds")

// Round states.
const (
	RoundPending   = "pending"
	RoundCommitted = "committed"
	RoundFailed    = "failed"
)

// Round is a single distribution attempt made by the keeper.
type Round struct {
	ID      uuid.UUID           `json:"id"`
	Pool    sharepool.Address   `json:"pool"`
	Started time.Time           `json:"started"`
	Vault   uint64              `json:"vault"`
	Holders int                 `json:"holders"`
	Winners []sharepool.Address `json:"winners"`
	Status  string              `json:"status"`
	TxID    string              `json:"tx_id,omitempty"`
	Height  int64               `json:"height,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// NewRound returns a pending round with a time ordered identifier.
func NewRound(pool sharepool.Address, vault uint64, now time.Time) (*Round, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(err, "round id")
	}
	return &Round{
		ID:      id,
		Pool:    pool,
		Started: now.UTC(),
		Vault:   vault,
		Status:  RoundPending,
	}, nil
}

// Journal keeps a persistent record of all rounds, so that an operator can
// audit what the keeper submitted.
type Journal struct {
	db *bolt.DB
}

// OpenJournal opens, or creates, the journal database at given path.
func OpenJournal(path string) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.Wrap(errors.ErrConfiguration, "journal path is required")
	}
	db, err := bolt.Open(filepath.Clean(path), 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrState, "open journal: %s", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(roundsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(errors.ErrState, "create bucket: %s", err)
	}
	return &Journal{db: db}, nil
}

// Close releases the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Save stores the round, overwriting a previous version of it.
func (j *Journal) Save(ctx context.Context, r *Round) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "marshal round")
	}
	return j.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(roundsBucket).Put(r.ID[:], raw)
	})
}

// Round returns the round with given id, or ErrNotFound.
func (j *Journal) Round(ctx context.Context, id uuid.UUID) (*Round, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var r Round
	err := j.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(roundsBucket).Get(id[:])
		if raw == nil {
			return errors.Wrapf(errors.ErrNotFound, "round %s", id)
		}
		return json.Unmarshal(raw, &r)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Recent returns up to limit rounds, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]*Round, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rounds []*Round
	err := j.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(roundsBucket).Cursor()
		// Version 7 identifiers sort by creation time.
		for k, v := c.Last(); k != nil && len(rounds) < limit; k, v = c.Prev() {
			var r Round
			if err := json.Unmarshal(v, &r); err != nil {
				return errors.Wrapf(err, "round %X", k)
			}
			rounds = append(rounds, &r)
		}
		return nil
	})
	return rounds, err
}
