package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lil-lang/lilc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "lilc",
	Short: "A compiler front- and middle-end for the L language",
	Long: `lilc parses L sources into an AST and lowers them through a
pipeline of transformation passes until the tree is ready for code
generation.

Features:
  • Class templates with type-parameter specialization
  • CSS-like rules that instantiate a static element DOM
  • Preprocessor instructions (#needs, #import, #if, #snippet, #arg)
  • Embedded textual LLVM IR`,
	Version: version.Short(),
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewBuildCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
