package checkout

import (
	"regexp"
	"strings"
)

// Email validation messages.
const (
	MsgEmailRequired = "Email is required"
	MsgEmailInvalid  = "Please enter a valid email"
)

// Whitespace is any Unicode space separator, plus \v and BOM.
var emailShape = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// ValidateEmail trims email and checks it has a local@domain.tld shape. It
// returns the trimmed address or the field message to show.
func ValidateEmail(email string) (trimmed, problem string) {
	trimmed = strings.TrimSpace(email)
	switch {
	case trimmed == "":
		return "", MsgEmailRequired
	case !emailShape.MatchString(trimmed):
		return trimmed, MsgEmailInvalid
	}
	return trimmed, ""
}
