package models

import (
	"fmt"
	"strings"
	"time"
)

// Member is a membership record as served by the membersys admin API.
// The email address doubles as the record identity for all edit calls.
type Member struct {
	Name     string `json:"name"`
	Street   string `json:"street"`
	City     string `json:"city"`
	Zipcode  string `json:"zipcode"`
	Country  string `json:"country"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Username string `json:"username,omitempty"`

	Fee       uint64 `json:"fee"`
	FeeYearly bool   `json:"fee_yearly"`
	HasKey    bool   `json:"has_key"`

	// Unix timestamp (seconds) up to which payments are settled. 0 = never.
	PaymentsCaughtUpTo int64 `json:"payments_caught_up_to,omitempty"`
}

// MembershipMetadata records where and when a membership request came in.
type MembershipMetadata struct {
	RequestTimestamp int64  `json:"request_timestamp,omitempty"`
	RequestSourceIP  string `json:"request_source_ip,omitempty"`
}

// MemberWithKey pairs a member record with its opaque datastore key.
// For applicants and queue entries the key is a UUID; mutating calls
// (accept, reject, cancel) address the record by this key, not by email.
type MemberWithKey struct {
	Key string `json:"key"`
	Member
	Metadata *MembershipMetadata `json:"metadata,omitempty"`
}

// MemberDetail is the single-member lookup response. The agreement PDF
// and the password hash are stripped server-side before it reaches us.
type MemberDetail struct {
	MemberData Member              `json:"member_data"`
	Metadata   *MembershipMetadata `json:"metadata,omitempty"`
}

// PlaceholderNone is shown for optional fields without a value.
const PlaceholderNone = "Keiner"

// FormatFee renders a membership fee as shown throughout the console,
// e.g. "250 CHF pro Jahr" or "20 CHF pro Monat". A zero fee still
// renders as "0 CHF ...".
func FormatFee(amount uint64, yearly bool) string {
	period := "Monat"
	if yearly {
		period = "Jahr"
	}
	return fmt.Sprintf("%d CHF pro %s", amount, period)
}

// FeeString renders the member's own fee.
func (m *Member) FeeString() string {
	return FormatFee(m.Fee, m.FeeYearly)
}

// UsernameOrPlaceholder returns the username, or "Keiner" if none is set.
func (m *Member) UsernameOrPlaceholder() string {
	if m.Username == "" {
		return PlaceholderNone
	}
	return m.Username
}

// PaidUntilString renders the payments-settled date, or "-" when unset.
func (m *Member) PaidUntilString() string {
	if m.PaymentsCaughtUpTo <= 0 {
		return "-"
	}
	return time.Unix(m.PaymentsCaughtUpTo, 0).UTC().Format("2006-01-02")
}

// RequestedAtString renders the request timestamp of an application,
// or "-" when no metadata was recorded.
func (m *MembershipMetadata) RequestedAtString() string {
	if m == nil || m.RequestTimestamp <= 0 {
		return "-"
	}
	return time.Unix(m.RequestTimestamp, 0).UTC().Format("2006-01-02 15:04")
}

// SourceIPString renders the request source address, or "-" when unknown.
func (m *MembershipMetadata) SourceIPString() string {
	if m == nil || m.RequestSourceIP == "" {
		return "-"
	}
	return m.RequestSourceIP
}

// RowID derives a stable row identifier from an email address by
// replacing every non-alphanumeric character with an underscore.
// "jane@doe.org" -> "jane_doe_org".
func RowID(email string) string {
	var b strings.Builder
	b.Grow(len(email))
	for _, r := range email {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
