package domain

import "strings"

// OperatorAllowList is the set of staff emails permitted to drive the
// order status machine. Matching is case-insensitive on the trimmed
// address. The list comes from configuration and is checked server-side
// on every status update, whatever the client claims.
type OperatorAllowList struct {
	emails map[string]struct{}
}

// NewOperatorAllowList builds an allow-list from raw email entries.
// Blank entries are ignored.
func NewOperatorAllowList(emails []string) *OperatorAllowList {
	set := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			set[email] = struct{}{}
		}
	}
	return &OperatorAllowList{emails: set}
}

// Allows reports whether the email belongs to an operator.
func (l *OperatorAllowList) Allows(email string) bool {
	if l == nil {
		return false
	}
	_, ok := l.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

// Len returns the number of allow-listed operators.
func (l *OperatorAllowList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.emails)
}
