package in

import (
	"context"

	"basecli/internal/modules/cli/dto"
	cliin "basecli/internal/modules/cli/port/in"
)

type CLIHandler struct {
	usecase cliin.Usecase
}

func NewCLIHandler(usecase cliin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Run processes argv-style tokens against the application dispatcher.
func (h CLIHandler) Run(ctx context.Context, args []string) (dto.ProcessOutput, error) {
	return h.usecase.Process(ctx, stringsToAny(args)...)
}

// RunStore processes tokens against the store dispatcher only.
func (h CLIHandler) RunStore(ctx context.Context, args []string) (dto.ProcessOutput, error) {
	return h.usecase.ProcessStore(ctx, stringsToAny(args)...)
}

func (h CLIHandler) Alias(ctx context.Context, name, target string) error {
	return h.usecase.Call(ctx, name, target)
}

func (h CLIHandler) Commands(ctx context.Context) ([]dto.CommandInfo, error) {
	return h.usecase.Commands(ctx)
}

func (h CLIHandler) StoreCommands(ctx context.Context) ([]dto.CommandInfo, error) {
	return h.usecase.StoreCommands(ctx)
}

func stringsToAny(args []string) []any {
	out := make([]any, 0, len(args))
	for _, a := range args {
		out = append(out, a)
	}
	return out
}
