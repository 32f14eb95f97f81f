package util

import "strings"

// NormalizeSender reduces a raw From header to a lower-cased address key.
// For headers carrying an angle-bracket address like "Name <User@Example.COM>"
// the key is the substring between the first '<' and the next '>' (or the
// rest of the string if '>' never follows). Anything else is used whole,
// trimmed and lower-cased. Senders are case-insensitive keys.
func NormalizeSender(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, "<") && strings.Contains(s, ">") {
		addr := s[strings.Index(s, "<")+1:]
		if j := strings.Index(addr, ">"); j >= 0 {
			addr = addr[:j]
		}
		return strings.ToLower(strings.TrimSpace(addr))
	}
	return strings.ToLower(s)
}
