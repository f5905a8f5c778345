package cli

import (
	"fmt"
	"os"

	"github.com/propdown/propdown/internal/decompile"
	"github.com/spf13/cobra"
)

var decompileOutput string

var decompileCmd = &cobra.Command{
	Use:   "decompile <file.html>",
	Short: "Recover approximate dialect source from compiled HTML",
	Long: `Best-effort reverse of the compiler: turns HTML produced by propdown
back into dialect source. The transform is lossy and non-validating; use
it to recover a lost source file, not as a general HTML converter.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecompile,
}

func init() {
	decompileCmd.Flags().StringVarP(&decompileOutput, "output", "o", "", "output file path (default: stdout)")

	rootCmd.AddCommand(decompileCmd)
}

func runDecompile(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return writeOutput(cmd, decompileOutput, decompile.Source(string(data)))
}
