package accuracy

import (
	"regexp"
	"strings"
)

// rewrite is one step of the markup-stripping pipeline.
type rewrite struct {
	re   *regexp.Regexp
	repl string
}

// markupRewrites runs in order; later steps are broader catch-alls for what
// earlier steps did not consume.
var markupRewrites = []rewrite{
	// Math-mode delimiters.
	{regexp.MustCompile(`\$\$`), ""},
	{regexp.MustCompile(`\$`), ""},
	{regexp.MustCompile(`\\\[`), ""},
	{regexp.MustCompile(`\\\]`), ""},
	{regexp.MustCompile(`\\\(`), ""},
	{regexp.MustCompile(`\\\)`), ""},

	// Sectioning keeps its argument.
	{regexp.MustCompile(`\\(section|subsection|chapter|paragraph|subparagraph|part|title)\*?(\{[^}]*\})`), "${2}"},

	// Math typeface and decoration keep their argument.
	{regexp.MustCompile(`\\(text|mathbf|mathrm|mathcal|mathit|mathbb|mathsf|boldsymbol|vec|hat|bar|tilde)(\{[^}]*\})`), "${2}"},

	// Text formatting keeps its argument.
	{regexp.MustCompile(`\\(textbf|textit|underline|emph|texttt|textsf|textsc)(\{[^}]*\})`), "${2}"},

	// Environments.
	{regexp.MustCompile(`\\begin\{[^}]*\}|\\end\{[^}]*\}`), ""},

	// References, citations, footnotes and figures carry no comparable text.
	{regexp.MustCompile(`\\(label|ref|cite|footnote|includegraphics)(\{[^}]*\})`), ""},

	// Operators drop their one or two argument groups.
	{regexp.MustCompile(`\\(frac|sqrt|sum|prod|int|lim|sup|inf|max|min)(\{[^}]*\}(\{[^}]*\})?)`), ""},

	{regexp.MustCompile(`\\(quad|qquad|hspace|vspace)(\{[^}]*\})?`), " "},
	{regexp.MustCompile(`\\(newline|linebreak|break|noindent)`), ""},

	// Anything command-shaped that is left.
	{regexp.MustCompile(`\\[a-zA-Z]+\*?`), ""},
	{regexp.MustCompile(`[{}]`), ""},
	{regexp.MustCompile(`\\`), ""},
}

// Normalize strips LaTeX-style markup from text so that two transcriptions can
// be compared on content alone. Whitespace runs collapse to a single space and
// the result is trimmed. Normalize is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	cleaned := text
	for _, rw := range markupRewrites {
		cleaned = rw.re.ReplaceAllString(cleaned, rw.repl)
	}

	return strings.Join(strings.FieldsFunc(cleaned, isSpace), " ")
}
