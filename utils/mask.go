package utils

import "strings"

// MaskEmail hides most of an address for log output:
// "ada.obi@example.com" -> "a*****i@e******.com".
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return email
	}

	switch n := len(local); {
	case n > 2:
		local = local[:1] + strings.Repeat("*", n-2) + local[n-1:]
	case n == 2:
		local = local[:1] + "*"
	}

	host, rest, found := strings.Cut(domain, ".")
	if found && len(host) > 1 {
		domain = host[:1] + strings.Repeat("*", len(host)-1) + "." + rest
	}
	return local + "@" + domain
}
