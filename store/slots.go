package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Storage slot names. These match the keys the browser build used, so a
// dump of one can be imported into the other.
const (
	SlotProducts      = "retail-store-products"
	SlotBills         = "retail-store-bills"
	SlotEmailSettings = "retail-store-email-settings"
)

// SlotStore is a named-slot JSON blob store. Load reports found=false for
// a missing slot; malformed payloads are the caller's problem to fall
// back from.
type SlotStore interface {
	Load(ctx context.Context, slot string) (data []byte, found bool, err error)
	Save(ctx context.Context, slot string, v interface{}) error
}

// PgSlotStore keeps slots in the storage_slots table.
type PgSlotStore struct {
	db *pgxpool.Pool
}

func NewPgSlotStore(db *pgxpool.Pool) *PgSlotStore {
	return &PgSlotStore{db: db}
}

func (s *PgSlotStore) Load(ctx context.Context, slot string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRow(ctx, "SELECT data FROM storage_slots WHERE slot = $1", slot).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load slot %q: %w", slot, err)
	}
	return data, true, nil
}

func (s *PgSlotStore) Save(ctx context.Context, slot string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal slot %q: %w", slot, err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO storage_slots (slot, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (slot) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, slot, data)
	if err != nil {
		return fmt.Errorf("failed to save slot %q: %w", slot, err)
	}
	return nil
}
