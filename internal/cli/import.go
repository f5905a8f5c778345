package cli

import (
	"fmt"
	"os"

	"github.com/propdown/propdown/internal/importer"
	"github.com/spf13/cobra"
)

var importOutput string

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Convert a foreign document to dialect source",
	Long: `Convert a plain text, Markdown, HTML, DOCX or PDF document into
propositional-writing source. The result is a starting draft: headings
become claims and body text becomes explanations, but the structure will
usually need hand-editing before it compiles cleanly.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "output file path (default: stdout)")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := args[0]
	imp, err := importer.ForFile(path)
	if err != nil {
		return err
	}
	if pdfImp, ok := imp.(*importer.PDFImporter); ok {
		pdfImp.FallbackPdftotext = cfg.PDFFallbackPdftotext
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	src, err := imp.Import(f, path)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}

	return writeOutput(cmd, importOutput, src)
}
