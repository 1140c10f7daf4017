package in

import (
	"context"

	"basecli/internal/modules/app/dto"
)

type Usecase interface {
	Snapshot(ctx context.Context) (dto.Snapshot, error)
	Events(ctx context.Context, limit int) ([]dto.EventOutput, error)
	StoreEntries(ctx context.Context) ([]dto.StoreEntry, error)
}
