package ap

import (
	"strings"

	"github.com/sokomo/apctl/internal/types"
)

// SanitizeName converts an SSID into a safe profile-name fragment: spaces
// become underscores and anything outside [A-Za-z0-9_-] is dropped. The
// function is idempotent.
func SanitizeName(ssid string) string {
	var out strings.Builder
	for _, r := range ssid {
		switch {
		case r == ' ':
			out.WriteRune('_')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			out.WriteRune(r)
		}
	}
	return out.String()
}

// ProfileName derives the NetworkManager profile name for an SSID.
func ProfileName(ssid string) string {
	return SanitizeName(ssid) + "-AP"
}

// IsAPProfile reports whether a profile looks like one of ours: a wireless
// connection whose name carries the AP suffix.
func IsAPProfile(p types.Profile) bool {
	if p.Type != "802-11-wireless" && p.Type != "wifi" {
		return false
	}
	return strings.HasSuffix(p.Name, "-AP") || strings.HasSuffix(p.Name, "AP")
}
