package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"github.com/vk/haspcfg/internal/app"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

func failure(err error) error {
	return &ExitError{Code: ExitFailure, Message: err.Error()}
}

// globalFlags are shared by every command.
type globalFlags struct {
	configDir string
	logLevel  string
	logFormat string
}

// config validates the flags into an app.Config.
func (f *globalFlags) config(cfg app.Config) (*app.Config, error) {
	if f.configDir == "" {
		return nil, usageError(errors.New("--config-dir is required"))
	}
	cfg.ConfigDir = f.configDir
	cfg.LogLevel = f.logLevel
	cfg.LogFormat = f.logFormat
	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError(err)
	}
	return validated, nil
}

// NewRootCommand builds the command tree. Command output goes to outW, logs
// to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "haspcfg",
		Short: "haspcfg - render openHASP device configurations",
		Long: `haspcfg renders templated openHASP pages (.jsonl) and command scripts (.cmd)
into device-ready files.

The configuration root holds variable declarations (*.yaml, *.yml, *.hcl) at any
directory level, one directory per device below devices/ (marked by a
config.json) and components shared by all devices in common/.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(outW)
	root.SetErr(errW)

	root.PersistentFlags().StringVarP(&flags.configDir, "config-dir", "c", "", "Configuration root directory (required).")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")

	root.AddCommand(newGenerateCommand(flags, errW))
	root.AddCommand(newVarsCommand(flags, errW))
	return root
}

// Execute runs the command line args and maps failures to *ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// Anything cobra reports itself is a usage problem.
	return usageError(err)
}
