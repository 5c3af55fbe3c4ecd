// Package util provides content hashing and text helpers.
package util

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

func ContentHashString(content string) string {
	return ContentHash([]byte(content))
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Excerpt strips HTML tags from content and cuts it to at most maxLength
// runes, appending "..." when it was shortened.
func Excerpt(content string, maxLength int) string {
	text := strings.TrimSpace(tagPattern.ReplaceAllString(content, ""))

	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return string(runes[:maxLength]) + "..."
}
