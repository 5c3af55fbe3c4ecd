package util

import "testing"

func TestContentHash(t *testing.T) {
	// sha256("hello")
	const want = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

	if got := ContentHash([]byte("hello")); got != want {
		t.Errorf("ContentHash() = %s, want %s", got, want)
	}
	if got := ContentHashString("hello"); got != want {
		t.Errorf("ContentHashString() = %s, want %s", got, want)
	}
	if ContentHashString("a") == ContentHashString("b") {
		t.Error("Expected different content to hash differently")
	}
}

func TestExcerpt(t *testing.T) {
	testCases := []struct {
		name      string
		content   string
		maxLength int
		expected  string
	}{
		{"short plain text", "Hello", 10, "Hello"},
		{"strips tags", "<p>Hello <strong>world</strong></p>", 50, "Hello world"},
		{"truncates", "<p>abcdefghij</p>", 4, "abcd..."},
		{"exact length", "abcd", 4, "abcd"},
		{"multibyte runes", "héllo wörld", 5, "héllo..."},
		{"empty", "", 10, ""},
		{"only tags", "<p><br></p>", 10, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Excerpt(tc.content, tc.maxLength); got != tc.expected {
				t.Errorf("Excerpt(%q, %d) = %q, want %q", tc.content, tc.maxLength, got, tc.expected)
			}
		})
	}
}
