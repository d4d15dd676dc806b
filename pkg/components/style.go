package components

import (
	"fmt"
	"strconv"
	"strings"
)

// Color produces an ANSI true-color foreground escape sequence from a hex
// color string like "#ff5500" or "ff5500". Malformed input yields "".
func Color(hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return ""
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
}

// BgColor produces an ANSI true-color background escape sequence from a
// hex color string.
func BgColor(hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return ""
	}
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", r, g, b)
}

// Bold wraps s in ANSI bold escape sequences.
func Bold(s string) string {
	return "\x1b[1m" + s + "\x1b[22m"
}

// Dim wraps s in ANSI dim/faint escape sequences.
func Dim(s string) string {
	return "\x1b[2m" + s + "\x1b[22m"
}

// Reset returns the ANSI reset sequence that clears all styling.
func Reset() string {
	return "\x1b[0m"
}

// parseHex parses "#RRGGBB" or "RRGGBB" into r, g, b components.
func parseHex(hex string) (r, g, b uint8, ok bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	rv, err1 := strconv.ParseUint(hex[0:2], 16, 8)
	gv, err2 := strconv.ParseUint(hex[2:4], 16, 8)
	bv, err3 := strconv.ParseUint(hex[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	return uint8(rv), uint8(gv), uint8(bv), true
}
