package domain

import "strconv"

// keySep separates file and rule in a key. Rule identifiers are snake_case
// and file names never contain NUL, so keys cannot collide.
const keySep = "\x00"

// Key returns the remediation key of a violation. Two violations with the same
// file and rule share a key regardless of message, severity or path.
func Key(v Violation) string {
	return v.File + keySep + v.RuleID
}

// RowKey disambiguates duplicate rows for display. It must never be used to
// key remediation state.
func RowKey(v Violation, index int) string {
	return Key(v) + keySep + strconv.Itoa(index)
}

// DisplayKey renders a key as "file:rule" for logs and output.
func DisplayKey(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == keySep[0] {
			return key[:i] + ":" + key[i+1:]
		}
	}
	return key
}
