package events

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// codePadding fills out prefixes derived from short titles.
const codePadding = "EVT"

// CodePrefix derives the 3-letter event prefix from a title: the first
// letter of up to three words, upper-cased, padded with "EVT" when the title
// yields fewer than three.
func CodePrefix(title string) string {
	var letters []rune
	for _, word := range strings.Fields(title) {
		letters = append(letters, unicode.ToUpper([]rune(word)[0]))
		if len(letters) == 3 {
			break
		}
	}
	prefix := string(letters)
	if len(prefix) < 3 {
		prefix = (prefix + codePadding)[:3]
	}
	return prefix
}

// ParticipantCode builds the scannable code value for a registration,
// e.g. "CBC-000123".
func ParticipantCode(prefix string, registrationID uint) string {
	return fmt.Sprintf("%s-%06d", prefix, registrationID)
}

// ParseParticipantCode extracts the registration id from a code value.
func ParseParticipantCode(code string) (uint, error) {
	idx := strings.LastIndex(code, "-")
	if idx < 0 {
		return 0, fmt.Errorf("malformed participant code %q", code)
	}
	id, err := strconv.ParseUint(code[idx+1:], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("malformed participant code %q: %w", code, err)
	}
	return uint(id), nil
}
