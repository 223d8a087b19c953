package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "labelconv <video>...",
		Short:        "Convert per-video label files into per-video CSVs",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args)
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().String("labels", "", "Label root directory")
	root.Flags().String("out", "", "Output directory")
	root.Flags().Int("workers", 0, "Concurrent conversions (progress order is relaxed above 1)")
	root.Flags().String("config", "", "Path to labelconv.yaml")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
