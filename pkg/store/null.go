package store

import "context"

// NullStore discards runs. Used when --save is off and in tests.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() Store {
	return NullStore{}
}

func (NullStore) Save(context.Context, *Run) error          { return nil }
func (NullStore) Get(context.Context, string) (*Run, error) { return nil, nil }
func (NullStore) List(context.Context, int) ([]*Run, error) { return nil, nil }
func (NullStore) Delete(context.Context, string) error      { return ErrNotFound }
func (NullStore) Close() error                              { return nil }

var _ Store = NullStore{}
