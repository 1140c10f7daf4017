package in

import (
	"context"

	"basecli/internal/modules/app/dto"
	appin "basecli/internal/modules/app/port/in"
)

type CLIHandler struct {
	usecase appin.Usecase
}

func NewCLIHandler(usecase appin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Snapshot(ctx context.Context) (dto.Snapshot, error) {
	return h.usecase.Snapshot(ctx)
}

func (h CLIHandler) Events(ctx context.Context, limit int) ([]dto.EventOutput, error) {
	return h.usecase.Events(ctx, limit)
}

func (h CLIHandler) StoreEntries(ctx context.Context) ([]dto.StoreEntry, error) {
	return h.usecase.StoreEntries(ctx)
}
