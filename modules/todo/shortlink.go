package todo

import (
	"github.com/jaevor/go-nanoid"
)

// shortlinkAlphabet restricts shortlinks to URL-safe alphanumerics.
const shortlinkAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// ShortlinkLength is the length of generated list shortlinks. At 10
// alphanumeric characters the collision probability is negligible, but
// creation still retries on a unique-constraint hit.
const ShortlinkLength = 10

// NewShortlinkGenerator returns a function producing random shortlinks.
func NewShortlinkGenerator() (func() string, error) {
	return nanoid.CustomASCII(shortlinkAlphabet, ShortlinkLength)
}

// IsValidShortlink checks that a shortlink is non-empty alphanumeric
// and within the stored size.
func IsValidShortlink(shortlink string) bool {
	if shortlink == "" || len(shortlink) > 32 {
		return false
	}
	for _, c := range shortlink {
		if !isAlphanumeric(c) {
			return false
		}
	}
	return true
}

func isAlphanumeric(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
