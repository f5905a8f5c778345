package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/propdown/propdown/internal/compiler"
	"github.com/propdown/propdown/internal/render"
	"github.com/spf13/cobra"
)

var (
	buildOutput    string
	buildTemplate  string
	buildSet       []string
	buildFragments bool
)

var buildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Compile a dialect source file to an HTML page",
	Long: `Compile a propositional-writing source file to a self-contained HTML
page. Required properties (title, author, date) may come from the source,
from propdown.yaml, or from --set overrides.

Examples:
  propdown build essay.pd
  propdown build essay.pd -o essay.html
  propdown build essay.pd --set author="A. Person" --set "date=1 Jan 2024"
  propdown build essay.pd --fragments`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output file path (default: stdout)")
	buildCmd.Flags().StringVar(&buildTemplate, "template", "", "page template file")
	buildCmd.Flags().StringArrayVar(&buildSet, "set", nil, "property override, key=value (repeatable)")
	buildCmd.Flags().BoolVar(&buildFragments, "fragments", false, "emit JSON fragments instead of a page")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	overrides := make(map[string]string, len(cfg.Properties)+len(buildSet))
	for k, v := range cfg.Properties {
		overrides[k] = v
	}
	for _, kv := range buildSet {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q, want key=value", kv)
		}
		overrides[k] = v
	}

	doc, err := compiler.Compile(string(src), overrides)
	if err != nil {
		return err
	}

	var out string
	if buildFragments {
		data, err := json.MarshalIndent(map[string]string{
			"title":        doc.Title(),
			"author":       doc.Author(),
			"date":         doc.Date(),
			"intro":        doc.IntroHTML(),
			"propositions": doc.PropositionsHTML(),
			"appendix":     doc.AppendixHTML(),
		}, "", "  ")
		if err != nil {
			return err
		}
		out = string(data) + "\n"
	} else {
		tmpl := buildTemplate
		if tmpl == "" {
			tmpl = cfg.TemplatePath
		}
		out, err = render.Page(doc, tmpl)
		if err != nil {
			return err
		}
	}

	return writeOutput(cmd, buildOutput, out)
}

// writeOutput writes to the -o path, or stdout when unset.
func writeOutput(cmd *cobra.Command, path, content string) error {
	if path == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
