package usecase

import (
	"context"

	"basecli/internal/modules/app/dto"
	appin "basecli/internal/modules/app/port/in"
	"basecli/internal/modules/app/service"
)

type Interactor struct {
	svc *service.AppService
}

func NewInteractor(svc *service.AppService) appin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Snapshot(_ context.Context) (dto.Snapshot, error) {
	return i.svc.Snapshot(), nil
}

func (i *Interactor) Events(ctx context.Context, limit int) ([]dto.EventOutput, error) {
	return i.svc.Events(ctx, limit)
}

func (i *Interactor) StoreEntries(ctx context.Context) ([]dto.StoreEntry, error) {
	return i.svc.StoreEntries(ctx)
}
