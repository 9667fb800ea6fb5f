package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/humblehuman369/dealscope-sub001/pkg/core/assumption"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/logging"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/utils"
)

var version = "dev"

const (
	formatTable = "table"
	formatJSON  = "json"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dealcalc",
		Short: "dealcalc - residential investment calculator",
		Long: `dealcalc runs the deal engine from the command line.

It appraises a property from comparables, scores it under any of six
investment strategies and projects the hold period with IRR.`,
		Version:      version,
		SilenceUsage: true,
	}

	logLevel := cmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.Setup(*logLevel, logging.FormatConsole)
	}

	cmd.AddCommand(newAnalyzeCommand())
	cmd.AddCommand(newAppraiseCommand())
	cmd.AddCommand(newProjectCommand())
	cmd.AddCommand(newAmortizeCommand())
	cmd.AddCommand(newHistoryCommand())

	return cmd
}

func execute() error {
	return newRootCommand().Execute()
}

// readInput reads path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

// decodeInput reads path and decodes it as JSON, repaired JSON or Hjson.
func decodeInput(cmd *cobra.Command, path string, v interface{}) error {
	data, err := readInput(cmd, path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if _, err := utils.SmartParse(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// loadAssumptions returns the built-in defaults, or the document at path.
func loadAssumptions(path string) (assumption.Set, error) {
	if path == "" {
		return assumption.LoadDefaults()
	}
	return assumption.LoadFile(path)
}

func checkFormat(format string) error {
	if format != formatTable && format != formatJSON {
		return fmt.Errorf("unsupported format %q: must be table or json", format)
	}
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
