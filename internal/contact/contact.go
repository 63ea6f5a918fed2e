// Package contact turns mail recipients into normalized contact records,
// consulting an address-book Directory when one is available.
package contact

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Contact is a normalized recipient.
type Contact struct {
	FirstName   string
	LastName    string
	DisplayName string
	Email       string
}

// Record is an address-book entry as returned by a Directory.
type Record struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	DisplayName  string `json:"displayName"`
	PrimaryEmail string `json:"primaryEmail"`
}

// Recipient is either a structured contact reference or a free-text address.
type Recipient struct {
	ContactID string `json:"contactId,omitempty" yaml:"contactId,omitempty"`
	Address   string `json:"address,omitempty" yaml:"address,omitempty"`
}

// Directory looks up address-book entries. Absent entries are reported with
// ok=false, not an error.
type Directory interface {
	GetByID(ctx context.Context, id string) (rec Record, ok bool, err error)
	SearchByEmail(ctx context.Context, email string) (rec Record, ok bool, err error)
}

var angleAddr = regexp.MustCompile(`^(.*?)<([^>]+)>\s*$`)

// ParseAddress splits "Display Name <email>", a bare email or a bare name.
func ParseAddress(s string) (name, email string) {
	s = strings.TrimSpace(s)
	if m := angleAddr.FindStringSubmatch(s); m != nil {
		name = strings.TrimSpace(m[1])
		name = strings.Trim(name, `"'`)
		return strings.TrimSpace(name), strings.TrimSpace(m[2])
	}
	if strings.Contains(s, "@") {
		return "", s
	}
	return s, ""
}

// SplitName derives first and last names from a display name: the first
// whitespace-separated token, then the rest joined by single spaces.
func SplitName(display string) (first, last string) {
	parts := strings.Fields(display)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// FromRecord normalizes a directory record. Explicit first and last names
// win; otherwise both are derived from the display name.
func FromRecord(r Record) Contact {
	c := Contact{
		FirstName:   strings.TrimSpace(r.FirstName),
		LastName:    strings.TrimSpace(r.LastName),
		DisplayName: strings.TrimSpace(r.DisplayName),
		Email:       strings.TrimSpace(r.PrimaryEmail),
	}
	if c.DisplayName == "" {
		c.DisplayName = strings.TrimSpace(c.FirstName + " " + c.LastName)
	}
	if c.FirstName == "" && c.LastName == "" {
		c.FirstName, c.LastName = SplitName(c.DisplayName)
	}
	return c
}

// FromAddress normalizes a free-text address without a directory.
func FromAddress(s string) Contact {
	name, email := ParseAddress(s)
	return FromRecord(Record{DisplayName: name, PrimaryEmail: email})
}

// Resolver resolves recipients, preferring directory data over the text of
// the address itself.
type Resolver struct {
	dir Directory
}

// NewResolver returns a Resolver. dir may be nil, in which case only the
// recipient text is used.
func NewResolver(dir Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve produces the contact for r. Directory failures are returned to the
// caller; an entry that is simply not found falls back to the parsed address.
func (r *Resolver) Resolve(ctx context.Context, rcpt Recipient) (Contact, error) {
	if rcpt.ContactID != "" && r.dir != nil {
		rec, ok, err := r.dir.GetByID(ctx, rcpt.ContactID)
		if err != nil {
			return Contact{}, fmt.Errorf("get contact %s: %w", rcpt.ContactID, err)
		}
		if ok {
			return FromRecord(rec), nil
		}
	}

	name, email := ParseAddress(rcpt.Address)
	parsed := Record{DisplayName: name, PrimaryEmail: email}
	if email == "" || r.dir == nil {
		return FromRecord(parsed), nil
	}

	rec, ok, err := r.dir.SearchByEmail(ctx, email)
	if err != nil {
		return Contact{}, fmt.Errorf("search contact %s: %w", email, err)
	}
	if !ok {
		return FromRecord(parsed), nil
	}
	if rec.PrimaryEmail == "" {
		rec.PrimaryEmail = email
	}
	if rec.DisplayName == "" && rec.FirstName == "" && rec.LastName == "" {
		rec.DisplayName = name
	}
	return FromRecord(rec), nil
}
