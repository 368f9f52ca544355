package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lil-lang/lilc/app"
	"github.com/lil-lang/lilc/domain"
	"github.com/lil-lang/lilc/internal/compiler"
	"github.com/lil-lang/lilc/service"
)

// NewBuildCmd creates the build command
func NewBuildCmd() *cobra.Command {
	var (
		args        []string
		constants   []string
		imports     []string
		configPath  string
		compilerDir string
		suffix      string
		format      string
		outputPath  string
	)

	cmd := &cobra.Command{
		Use:   "build <file.lil>",
		Short: "Compile an L source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")

			out := cmd.OutOrStdout()
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return domain.NewOutputError("could not create output file", err)
				}
				defer f.Close()
				out = f
			}

			svc := service.NewCompileService(compiler.DefaultASTBuilder())
			useCase := app.NewCompileUseCase(svc, service.NewReportFormatter())
			response, err := useCase.Execute(domain.CompileRequest{
				InputPath:    cmdArgs[0],
				OutputWriter: out,
				OutputFormat: domain.OutputFormat(format),
				Arguments:    args,
				Constants:    constants,
				Imports:      imports,
				ConfigPath:   configPath,
				CompilerDir:  compilerDir,
				Suffix:       suffix,
				Verbose:      verbose,
			})
			if err != nil {
				return err
			}
			if !response.Success {
				fmt.Fprintln(cmd.ErrOrStderr(), "Errors encountered. Exiting.")
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&args, "arg", nil, "Argument visible to #arg (repeatable)")
	cmd.Flags().StringArrayVar(&constants, "const", nil, "Constant that is true in #if conditions (repeatable)")
	cmd.Flags().StringArrayVar(&imports, "import", nil, "Forced import (repeatable)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to lil.toml (default: discover upwards)")
	cmd.Flags().StringVar(&compilerDir, "compiler-dir", "", "Directory holding the std library")
	cmd.Flags().StringVar(&suffix, "suffix", "", "Suffix appended to bare import names")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Report format: text, json, yaml")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report to a file")

	return cmd
}
