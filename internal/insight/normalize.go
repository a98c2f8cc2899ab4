package insight

import (
	"regexp"
	"strings"
)

// The generation service is inconsistent about shape: it sometimes
// echoes instruction labels as headings, uses single-star emphasis, runs
// sections together, or pads them with extra blank lines. Normalize
// repairs all of that with an ordered pipeline of pure transforms. The
// whole pipeline is idempotent: normalizing already-normalized text is a
// no-op, so records can safely be re-processed.

// headingLineRegexp matches lines that are pure markup headings or
// echoed instruction labels rather than narrative text
var headingLineRegexp = regexp.MustCompile(`(?m)^(?:#{1,6}[ \t].*|\*{0,2}(?:Introduction|Conclusion|Closing|Section [0-9]+)\*{0,2}:?[ \t]*)$[\r\n]?`)

// singleEmphasisRegexp matches a single-star emphasis span on one line
var singleEmphasisRegexp = regexp.MustCompile(`\*([^*\n]+)\*`)

// trailingSpaceRegexp matches trailing whitespace on each line
var trailingSpaceRegexp = regexp.MustCompile(`(?m)[ \t]+$`)

// blankRunRegexp matches a run of three or more line breaks, possibly
// padded with spaces, that should collapse to one blank line
var blankRunRegexp = regexp.MustCompile(`\n(?:[ \t]*\n){2,}`)

// transitionPhrases are conclusion openers the break-insertion step
// recognizes in addition to the per-association section headers
var transitionPhrases = []string{
	"Taken together,",
	"All in all,",
	"In the end,",
	"Overall,",
}

// Normalize post-processes generated narrative text into the canonical
// shape the rendering layer expects. The word and associations identify
// the section headers the text is supposed to contain.
func Normalize(raw, word, assoc1, assoc2, assoc3 string) string {
	markers := []string{
		SectionHeader(word, assoc1),
		SectionHeader(word, assoc2),
		SectionHeader(word, assoc3),
	}
	markers = append(markers, transitionPhrases...)

	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = trailingSpaceRegexp.ReplaceAllString(text, "")
	text = StripHeadingLines(text)
	text = NormalizeEmphasis(text)
	text = EnsureSectionBreaks(text, markers)
	text = CollapseBlankLines(text)
	return strings.TrimSpace(text)
}

// StripHeadingLines removes lines that are pure section titles: markdown
// heading markers and echoed instruction labels
func StripHeadingLines(text string) string {
	return headingLineRegexp.ReplaceAllString(text, "")
}

// NormalizeEmphasis promotes single-delimiter emphasis spans to the
// double-delimiter bold form used by the rendering layer. Markers that
// are already doubled are protected first, so re-running never turns
// bold into quadruple stars.
func NormalizeEmphasis(text string) string {
	const guard = "\x00"

	text = strings.ReplaceAll(text, "**", guard)
	text = singleEmphasisRegexp.ReplaceAllString(text, "**$1**")
	return strings.ReplaceAll(text, guard, "**")
}

// EnsureSectionBreaks re-inserts a blank line immediately before each
// recognized section marker, covering the case where the model ran
// sections together without separation. Markers already preceded by a
// blank line are left alone.
func EnsureSectionBreaks(text string, markers []string) string {
	for _, marker := range markers {
		re := regexp.MustCompile(`(\S)[ \t]*\n?(` + regexp.QuoteMeta(marker) + `)`)
		text = re.ReplaceAllString(text, "$1\n\n$2")
	}
	return text
}

// CollapseBlankLines reduces any run of three or more consecutive line
// breaks to exactly one blank line
func CollapseBlankLines(text string) string {
	return blankRunRegexp.ReplaceAllString(text, "\n\n")
}
