package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/patternforge/patternforge/assemble"
	"github.com/patternforge/patternforge/config"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the style-guide site",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Building style guide...")

		manifest, _ := cmd.Flags().GetString("config")
		logErrors, _ := cmd.Flags().GetBool("log-errors")

		opts, err := config.LoadFile(manifest, !cmd.Flags().Changed("config"))
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		opts.LogErrors = opts.LogErrors || logErrors

		cfg, err := config.Resolve(opts)
		if err != nil {
			fmt.Printf("Error resolving config: %v\n", err)
			os.Exit(1)
		}

		res, err := assemble.Run(cfg)
		if err != nil {
			fmt.Printf("Error building site: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Built %d pages into %s\n", len(res.Pages), cfg.Dest)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("config", "c", "patternforge.yml", "Path to the config manifest")
	buildCmd.Flags().Bool("log-errors", false, "Print per-file errors instead of aborting")
}
