package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "patternforge",
	Short: "PatternForge - assemble style-guide documentation from UI materials",
	Long: `PatternForge walks conventionally organized directories of reusable UI
fragments, layouts, and data files, and composes them into a rendered
style-guide site.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
