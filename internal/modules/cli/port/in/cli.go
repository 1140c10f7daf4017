package in

import (
	"context"

	"basecli/internal/modules/cli/dto"
)

type Usecase interface {
	Process(ctx context.Context, tokens ...any) (dto.ProcessOutput, error)
	ProcessStore(ctx context.Context, tokens ...any) (dto.ProcessOutput, error)
	Call(ctx context.Context, args ...any) error
	Commands(ctx context.Context) ([]dto.CommandInfo, error)
	StoreCommands(ctx context.Context) ([]dto.CommandInfo, error)
}
