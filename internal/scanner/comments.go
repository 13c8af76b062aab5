package scanner

import (
	"regexp"
	"strings"
)

var (
	lineCommentPattern  = regexp.MustCompile(`//.*`)
	blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// StripComments removes slash-style line comments and then block comments
// (non-greedy, across newlines) from content. It does not recognise string
// literals, so a comment marker inside a string truncates that line too.
func StripComments(content string) string {
	content = lineCommentPattern.ReplaceAllString(content, "")
	return blockCommentPattern.ReplaceAllString(content, "")
}

// stripCommentsKeepLines behaves like StripComments but keeps the newlines of
// removed block comments, so line numbers still refer to the original file.
func stripCommentsKeepLines(content string) string {
	content = lineCommentPattern.ReplaceAllString(content, "")
	return blockCommentPattern.ReplaceAllStringFunc(content, func(block string) string {
		return strings.Repeat("\n", strings.Count(block, "\n"))
	})
}
