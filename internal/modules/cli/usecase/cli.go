package usecase

import (
	"context"

	"basecli/internal/modules/cli/dto"
	cliin "basecli/internal/modules/cli/port/in"
	"basecli/internal/modules/cli/service"
)

type Interactor struct {
	cli *service.CLI
}

func NewInteractor(cli *service.CLI) cliin.Usecase {
	return &Interactor{cli: cli}
}

func (i *Interactor) Process(ctx context.Context, tokens ...any) (dto.ProcessOutput, error) {
	return i.cli.Process(ctx, tokens...)
}

func (i *Interactor) ProcessStore(ctx context.Context, tokens ...any) (dto.ProcessOutput, error) {
	if i.cli.Store == nil {
		return dto.ProcessOutput{}, nil
	}
	return i.cli.Store.Process(ctx, tokens...)
}

func (i *Interactor) Call(_ context.Context, args ...any) error {
	_, err := i.cli.Call(args...)
	return err
}

func (i *Interactor) Commands(_ context.Context) ([]dto.CommandInfo, error) {
	return i.cli.Commands(), nil
}

func (i *Interactor) StoreCommands(_ context.Context) ([]dto.CommandInfo, error) {
	if i.cli.Store == nil {
		return []dto.CommandInfo{}, nil
	}
	return i.cli.Store.Commands(), nil
}
