// Package namerules implements the rule-driven logical-name/description
// extractor (C2): given a carrier's doc comment and identifier, it derives
// a human-readable logical name and description using a configurable
// LogicalNameRuleSet, falling back to a Unicode-correct title-cased
// decapitalization of the identifier when no rule matches. Extraction is
// pure and never returns an error — a rule that fails to compile or match
// is simply skipped, and the fallback always produces a name.
package namerules

import (
	"regexp"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CommentStyle names the doc-comment convention a pattern template is
// written against, since Java doc comments and single-line `//` markers
// carry annotation text differently.
type CommentStyle string

const (
	CommentStyleJavadoc CommentStyle = "javadoc"
	CommentStyleLine    CommentStyle = "line"
)

// PatternTemplate is one regular expression tried against a carrier's doc
// comment, with Capture selecting which submatch becomes the logical name
// (0 means the whole match).
type PatternTemplate struct {
	CommentStyle CommentStyle
	Pattern      string
	Capture      int
}

// FallbackRule governs how an identifier is turned into a logical name
// when no pattern template matched.
type FallbackRule struct {
	// SplitCamelCase inserts spaces at camelCase/PascalCase boundaries
	// before title-casing, e.g. "findByEmail" -> "Find By Email".
	SplitCamelCase bool
	// StripPrefixes removes any of these leading tokens before splitting,
	// e.g. "get"/"is"/"set" on a Java accessor.
	StripPrefixes []string
}

// LogicalNameRuleSet is a complete, data-driven extraction configuration.
// The zero value is a valid rule set: no patterns, camelCase splitting off
// (Fallback.SplitCamelCase is false), no stripped prefixes, no skip tokens.
type LogicalNameRuleSet struct {
	CommentStyle      CommentStyle
	PatternTemplates  []PatternTemplate
	SkipTokens        []string // doc-comment tokens that disqualify it as a description (e.g. "{@inheritDoc}")
	Fallback          FallbackRule

	compileOnce sync.Once
	compiled    []compiledTemplate
}

type compiledTemplate struct {
	re      *regexp.Regexp
	capture int
}

func (rs *LogicalNameRuleSet) compile() {
	rs.compileOnce.Do(func() {
		for _, t := range rs.PatternTemplates {
			re, err := regexp.Compile(t.Pattern)
			if err != nil {
				continue // an unparseable rule is skipped, never fatal
			}
			rs.compiled = append(rs.compiled, compiledTemplate{re: re, capture: t.Capture})
		}
	})
}

var titleCaser = cases.Title(language.English)

// Extract derives a (logicalName, description) pair for a carrier
// identified by identifier, given its raw doc comment text (empty if none).
func (rs *LogicalNameRuleSet) Extract(identifier, docComment string) (name string, description string) {
	rs.compile()

	text := docComment
	if rs.CommentStyle == CommentStyleJavadoc {
		text = stripCommentMarkers(text)
	}

	if text != "" && !hasSkipToken(text, rs.SkipTokens) {
		for _, ct := range rs.compiled {
			m := ct.re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			idx := ct.capture
			if idx < 0 || idx >= len(m) {
				idx = 0
			}
			if v := strings.TrimSpace(m[idx]); v != "" {
				return v, strings.TrimSpace(firstSentence(text))
			}
		}
	}

	return rs.fallbackName(identifier), ""
}

// stripCommentMarkers flattens a Javadoc block comment ("/** ... */", with
// each continuation line optionally starting with "*") into plain prose, so
// pattern templates match against the comment's text rather than its
// delimiters.
func stripCommentMarkers(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "/**")
	s = strings.TrimPrefix(s, "/*")
	s = strings.TrimSuffix(s, "*/")
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, " ")
}

func hasSkipToken(text string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(text, tok) {
			return true
		}
	}
	return false
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.IndexByte(text, '.'); idx >= 0 {
		return text[:idx+1]
	}
	return text
}

func (rs *LogicalNameRuleSet) fallbackName(identifier string) string {
	word := identifier
	for _, prefix := range rs.Fallback.StripPrefixes {
		if strings.HasPrefix(word, prefix) && len(word) > len(prefix) {
			rest := word[len(prefix):]
			if rest[0] >= 'A' && rest[0] <= 'Z' {
				word = rest
				break
			}
		}
	}

	if !rs.Fallback.SplitCamelCase {
		return titleCaser.String(word)
	}
	return titleCaser.String(strings.Join(SplitCamelCase(word), " "))
}

// SplitCamelCase splits an identifier at camelCase/PascalCase boundaries
// and underscores, returning lowercase words.
func SplitCamelCase(s string) []string {
	var words []string
	var cur strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-':
			if cur.Len() > 0 {
				words = append(words, strings.ToLower(cur.String()))
				cur.Reset()
			}
		case i > 0 && isUpper(r) && !isUpper(runes[i-1]):
			words = append(words, strings.ToLower(cur.String()))
			cur.Reset()
			cur.WriteRune(r)
		case i > 0 && isUpper(r) && isUpper(runes[i-1]) && i+1 < len(runes) && !isUpper(runes[i+1]):
			words = append(words, strings.ToLower(cur.String()))
			cur.Reset()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		words = append(words, strings.ToLower(cur.String()))
	}
	return words
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

// DefaultJavaRuleSet is the rule set applied to Java classes/methods/fields
// when the source tree carries no project-specific override: it recognizes
// a leading Javadoc summary line as the description, and falls back to
// camelCase splitting with getter/setter/is-prefix stripping.
func DefaultJavaRuleSet() *LogicalNameRuleSet {
	return &LogicalNameRuleSet{
		CommentStyle: CommentStyleJavadoc,
		PatternTemplates: []PatternTemplate{
			// The Javadoc summary fragment: everything up to the first
			// sentence-ending period, e.g. "Handles inbound webhook
			// retries." -> "Handles inbound webhook retries."
			{CommentStyle: CommentStyleJavadoc, Pattern: `^([^.\n]+\.)`, Capture: 1},
		},
		SkipTokens: []string{"{@inheritDoc}", "TODO"},
		Fallback: FallbackRule{
			SplitCamelCase: true,
			StripPrefixes:  []string{"get", "set", "is"},
		},
	}
}
