package openai

import (
	"regexp"
	"strings"
)

var (
	reMarkdownImg = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`) // ![alt](url)
	reURL         = regexp.MustCompile(`https?://\S+`)
)

const maxQuestionRunes = 2000

// SanitizeQuestion strips markdown images, links and angle brackets, and caps
// the length.
func SanitizeQuestion(q string) string {
	text := reMarkdownImg.ReplaceAllString(q, "")
	text = reURL.ReplaceAllString(text, "")
	text = strings.NewReplacer("<", "", ">", "").Replace(text)
	text = strings.TrimSpace(text)
	if r := []rune(text); len(r) > maxQuestionRunes {
		text = string(r[:maxQuestionRunes])
	}
	return text
}
