package importer

import "strings"

// inlineEscaper neutralizes characters the inline grammar treats as markup,
// so imported prose always compiles.
var inlineEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"[", `\[`,
	"&", `\&`,
)

// sourceWriter accumulates dialect source, one blank-line-separated block
// at a time.
type sourceWriter struct {
	b strings.Builder
}

func (w *sourceWriter) property(name, value string) {
	// Property values stay on one line so the chunk ends where expected.
	value = strings.Join(strings.Fields(value), " ")
	w.b.WriteString("##" + name + " " + value + "\n")
}

func (w *sourceWriter) proposition(text string) {
	w.blank()
	w.b.WriteString("# " + escapeBlock(text) + "\n")
}

func (w *sourceWriter) paragraph(text string) {
	w.blank()
	w.b.WriteString(escapeBlock(text) + "\n")
}

func (w *sourceWriter) list(items []string) {
	if len(items) == 0 {
		return
	}
	w.blank()
	for _, item := range items {
		w.b.WriteString("* " + escapeBlock(item) + "\n")
	}
}

func (w *sourceWriter) blank() {
	if w.b.Len() > 0 {
		w.b.WriteString("\n")
	}
}

func (w *sourceWriter) source() string {
	return w.b.String()
}

// escapeBlock escapes inline markup characters and defuses line prefixes
// ("#", "??", dash underlines) that would change how the block chunks.
func escapeBlock(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = inlineEscaper.Replace(line)
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "?? ") || dashOnly(line) {
			line = `\` + line
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func dashOnly(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '-' {
			return false
		}
	}
	return true
}
