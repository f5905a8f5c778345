// Package decompile approximately reverses compiled HTML back into
// propositional-writing source. It is a lossy, non-validating sequence of
// textual substitutions, not an inverse of the compiler: anything it does
// not recognize is stripped or passed through.
package decompile

import (
	"regexp"
	"strings"
)

type substitution struct {
	pat  *regexp.Regexp
	repl string
}

// subs run in order; earlier patterns must be more specific (footnote
// definitions before plain anchors, classed elements before bare ones).
var subs = []substitution{
	// Page chrome.
	{regexp.MustCompile(`(?s)<head\b.*?</head>`), ""},
	{regexp.MustCompile(`(?i)<!DOCTYPE[^>]*>|</?html[^>]*>|</?body[^>]*>|<hr\s*/?>`), ""},
	{regexp.MustCompile(`(?s)<h1[^>]*>.*?</h1>`), ""},
	{regexp.MustCompile(`(?s)<p class="byline">.*?</p>`), ""},
	{regexp.MustCompile(`</?div class="(?:intro|appendix)">|</div>\n?`), ""},

	// Footnotes and anchors.
	{regexp.MustCompile(`<span class="footnote-number">(?:\d+|\?)</span><a id="fn-([^"]+)"></a>`), "[$1::]"},
	{regexp.MustCompile(`<a class="footnote" href="#fn-([^"]+)">(\d+)</a>`), "[$1::]($2)"},
	{regexp.MustCompile(`<a id="([^"]+)"></a>`), "[$1:]"},

	// Links.
	{regexp.MustCompile(`<a href="#([^"]+)">((?s).*?)</a>`), "[$1:]($2)"},
	{regexp.MustCompile(`<a href="([^"]+)">((?s).*?)</a>`), "[$1]($2)"},

	// Emphasis.
	{regexp.MustCompile(`</?b>`), "**"},
	{regexp.MustCompile(`</?i>`), "*"},

	// Blocks. The propositions list collapses to "# " headline lines.
	{regexp.MustCompile(`<ol class="propositions">\n?|</ol>\n?|<li>\n?|</li>\n?`), ""},
	{regexp.MustCompile(`<div class="proposition">((?s).*?)</div>`), "# $1\n"},
	{regexp.MustCompile(`<h2>((?s).*?)</h2>`), "$1\n----\n"},
	{regexp.MustCompile(`<blockquote class="critique">`), "?? #:quote "},
	{regexp.MustCompile(`<blockquote>`), "#:quote "},
	{regexp.MustCompile(`</blockquote>`), "\n"},
	{regexp.MustCompile(`<p class="critique">`), "?? "},
	{regexp.MustCompile(`<p>`), ""},
	{regexp.MustCompile(`</p>`), "\n"},
	{regexp.MustCompile(`<ul[^>]*>\n?|</ul>\n?`), ""},

	// Dashes and basic entities. The backslash restores characters the
	// compiler would otherwise treat as markup.
	{regexp.MustCompile(`&ndash;`), "--"},
	{regexp.MustCompile(`&mdash;`), "---"},
	{regexp.MustCompile(`&amp;`), `\&`},
	{regexp.MustCompile(`&lt;`), "<"},
	{regexp.MustCompile(`&gt;`), ">"},
	{regexp.MustCompile(`&#34;|&quot;`), `"`},
	{regexp.MustCompile(`&#39;`), "'"},
}

var (
	critiqueList = regexp.MustCompile(`<ul class="critique">\n<li>(.*)</li>`)
	listItem     = regexp.MustCompile(`(?m)^<li>(.*)</li>$`)
	excessGaps   = regexp.MustCompile(`\n{3,}`)
)

// Source converts compiled HTML back to approximate dialect source.
func Source(html string) string {
	out := html

	// List items keep their "* " markers; both passes must run before the
	// generic <li> strip in subs, and the critique form first so the "??"
	// lands on the chunk's first item.
	out = critiqueList.ReplaceAllString(out, "?? * $1")
	out = listItem.ReplaceAllString(out, "* $1")

	for _, s := range subs {
		out = s.pat.ReplaceAllString(out, s.repl)
	}

	out = excessGaps.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out) + "\n"
}
