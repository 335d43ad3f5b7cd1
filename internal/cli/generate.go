package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vk/haspcfg/internal/app"
)

func newGenerateCommand(flags *globalFlags, logW io.Writer) *cobra.Command {
	var (
		outputDir string
		devices   []string
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render device configurations",
		Long: `Render the components of every device, or of the devices named with --device,
and write them to <output>/<device>/.

Examples:
  haspcfg generate -c ./config
  haspcfg generate -c ./config --device kitchen --output ./out`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config(app.Config{
				OutputDir:   outputDir,
				Devices:     devices,
				WorkerCount: workers,
			})
			if err != nil {
				return err
			}

			summary, err := app.NewApp(logW, cfg).Generate(cmd.Context())
			if err != nil {
				return failure(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d files for %d devices in %s\n", summary.Files, len(summary.Devices), cfg.OutputDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory. Defaults to 'output' next to the configuration root.")
	cmd.Flags().StringSliceVarP(&devices, "device", "d", nil, "Only render this device. May be repeated.")
	cmd.Flags().IntVarP(&workers, "workers", "w", app.DefaultWorkerCount, "Number of devices rendered concurrently.")
	return cmd
}
