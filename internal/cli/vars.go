package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/vk/haspcfg/internal/app"
	"gopkg.in/yaml.v3"
)

func newVarsCommand(flags *globalFlags, logW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "vars PATH",
		Short: "Print the variables visible to a file or directory",
		Long: `Print, as YAML, the merged variables visible to PATH. PATH is relative to the
configuration root.

Examples:
  haspcfg vars -c ./config devices/kitchen/home.jsonl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config(app.Config{})
			if err != nil {
				return err
			}

			v, err := app.NewApp(logW, cfg).Vars(cmd.Context(), args[0])
			if err != nil {
				return failure(err)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(v); err != nil {
				return failure(err)
			}
			return enc.Close()
		},
	}
}
