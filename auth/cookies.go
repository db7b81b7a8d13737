package auth

import (
	"fmt"
	"strings"
)

// CookieValue searches Set-Cookie header values for the named cookie and
// returns its value. Each header value may carry the whole cookie string
// including attributes ("accessToken=abc; Path=/; HttpOnly"), so the split
// on ';' happens before the split on '=' — an '=' inside an attribute or a
// later cookie must not truncate the extraction.
func CookieValue(setCookies []string, name string) (string, error) {
	for _, raw := range setCookies {
		for _, part := range strings.Split(raw, ";") {
			key, value, found := strings.Cut(strings.TrimSpace(part), "=")
			if found && key == name {
				return value, nil
			}
		}
	}
	return "", fmt.Errorf("cookie %q not found", name)
}
