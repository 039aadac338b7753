package storage

import (
	"github.com/korjavin/edentimer/pkg/logger"
)

const offsetKey = "offset"

// DefaultOffset is the game-clock offset in hours used when no value has
// been stored yet or the stored value cannot be read.
const DefaultOffset = -2.0

// OffsetStore persists the single game-clock calibration value. Reads fall
// back to DefaultOffset; writes fully overwrite the stored value, so two
// concurrent calibrations resolve to whichever write landed last.
type OffsetStore struct {
	store  *Store
	logger *logger.Logger
}

// NewOffsetStore creates an offset store backed by the given store
func NewOffsetStore(store *Store) *OffsetStore {
	return &OffsetStore{
		store:  store,
		logger: logger.New("offset"),
	}
}

// Offset returns the current offset in fractional hours
func (o *OffsetStore) Offset() float64 {
	var hours float64
	if err := o.store.Get(offsetKey, &hours); err != nil {
		return DefaultOffset
	}
	return hours
}

// SetOffset overwrites the stored offset with the given value in hours
func (o *OffsetStore) SetOffset(hours float64) error {
	if err := o.store.Set(offsetKey, hours); err != nil {
		return err
	}
	o.logger.Info("Offset updated to %.1f hours", hours)
	return nil
}
