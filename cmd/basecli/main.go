package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"basecli/internal/bootstrap"
	clidto "basecli/internal/modules/cli/dto"
	"basecli/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	workdir  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "basecli",
		Short:         "Drive an extensible application with CLI-style tokens",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.workdir, "workdir", ".", "working directory holding .basecli state")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: trace|debug|info|warn|error (overrides config)")

	root.AddCommand(newRunCmd(flags))
	root.AddCommand(newStoreCmd(flags))
	root.AddCommand(newCommandsCmd(flags))
	root.AddCommand(newShowCmd(flags))
	root.AddCommand(newEventsCmd(flags))
	root.AddCommand(newConsoleCmd(flags))
	return root
}

func loadApp(flags *globalFlags, logOutput io.Writer) (*bootstrap.App, error) {
	cfg, err := config.New(flags.workdir)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	return bootstrap.New(cfg, logOutput)
}

func newRunCmd(flags *globalFlags) *cobra.Command {
	var show bool
	cmd := &cobra.Command{
		Use:   "run [--] <token>...",
		Short: "Process tokens such as --set=a=b --use=env against the application",
		Example: `  basecli run set=title=Docs enable=verbose
  basecli run -- --cwd=plugins --use=lint,format`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			app.Host.On("use", func(args ...any) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "use %v\n", args...)
			})
			out, err := app.CLI.Run(context.Background(), args)
			if err != nil {
				return err
			}
			printProcessOutput(cmd.OutOrStdout(), out)
			if show {
				return printSnapshot(cmd, app)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&show, "show", false, "print application state after processing")
	return cmd
}

func newStoreCmd(flags *globalFlags) *cobra.Command {
	store := &cobra.Command{
		Use:   "store [--] <token>...",
		Short: "Process tokens against the persistent store",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.CLI.RunStore(context.Background(), args)
			if err != nil {
				return err
			}
			printProcessOutput(cmd.OutOrStdout(), out)
			return nil
		},
	}
	store.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List persisted store entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			entries, err := app.AppCLI.StoreEntries(context.Background())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "store is empty")
				return nil
			}
			for _, e := range entries {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%v\n", e.Key, e.Value)
			}
			return nil
		},
	})
	return store
}

func newCommandsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List dispatcher commands and aliases",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			commands, err := app.CLI.Commands(context.Background())
			if err != nil {
				return err
			}
			storeCommands, err := app.CLI.StoreCommands(context.Background())
			if err != nil {
				return err
			}
			printCommands(cmd.OutOrStdout(), "app", commands)
			printCommands(cmd.OutOrStdout(), "store", storeCommands)
			return nil
		},
	}
}

func newShowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Apply configured args and print application state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			if _, err := app.CLI.Run(context.Background(), nil); err != nil {
				return err
			}
			return printSnapshot(cmd, app)
		},
	}
}

func newEventsCmd(flags *globalFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show recorded application events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			events, err := app.AppCLI.Events(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no events")
				return nil
			}
			for _, ev := range events {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", ev.At.Format("2006-01-02T15:04:05Z07:00"), ev.Name, strings.Join(ev.Args, " "))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of most recent events")
	return cmd
}

func newConsoleCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Run the interactive token console",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, io.Discard)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunConsole(app)
		},
	}
}

func printProcessOutput(w io.Writer, out clidto.ProcessOutput) {
	if len(out.Dispatched) > 0 {
		_, _ = fmt.Fprintf(w, "dispatched: %s\n", strings.Join(out.Dispatched, ", "))
	}
	if len(out.Skipped) > 0 {
		_, _ = fmt.Fprintf(w, "skipped: %s\n", strings.Join(out.Skipped, ", "))
	}
}

func printCommands(w io.Writer, scope string, commands []clidto.CommandInfo) {
	if len(commands) == 0 {
		_, _ = fmt.Fprintf(w, "%s: no commands\n", scope)
		return
	}
	for _, c := range commands {
		line := fmt.Sprintf("%s\t%s\t%s", scope, c.Name, c.Kind)
		if len(c.Aliases) > 0 {
			line += "\taliases=" + strings.Join(c.Aliases, ",")
		}
		_, _ = fmt.Fprintln(w, line)
	}
}

func printSnapshot(cmd *cobra.Command, app *bootstrap.App) error {
	snapshot, err := app.AppCLI.Snapshot(context.Background())
	if err != nil {
		return err
	}
	raw, err := yaml.Marshal(map[string]any{
		"cwd":     snapshot.Cwd,
		"cache":   snapshot.Cache,
		"options": snapshot.Options,
		"data":    snapshot.Data,
		"defined": snapshot.Defined,
		"plugins": snapshot.Plugins,
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(raw)
	return err
}
