package utils

import "unicode"

// CountTokens estimates the token count of text for logging prompt sizes.
// Hangul syllables are counted as one token each; other text as roughly
// four characters per token.
func CountTokens(text string) int {
	if text == "" {
		return 0
	}
	var hangul, other int
	for _, r := range text {
		if unicode.Is(unicode.Hangul, r) {
			hangul++
		} else {
			other++
		}
	}
	tokens := hangul + other/4
	if tokens == 0 {
		return 1
	}
	return tokens
}
