package out

import (
	"context"

	"basecli/internal/modules/app/domain"
	"basecli/internal/platform/hostapi"
)

// StoreBackend is the persistent store sub-object plus listing.
type StoreBackend interface {
	hostapi.Store
	Entries(ctx context.Context) ([]domain.Entry, error)
}

// DataLoader reads a structured data file into a map.
type DataLoader interface {
	Load(ctx context.Context, path string) (map[string]any, error)
}

// EventJournal records emitted events.
type EventJournal interface {
	Append(ctx context.Context, event domain.Event) error
	List(ctx context.Context, limit int) ([]domain.Event, error)
}
