package payload

import (
	"errors"
	"strings"
)

const (
	// ChoiceField stores the raw recipient selection.
	ChoiceField = "pm_choice"
	// EmailField stores the free-text address typed for the "other" choice.
	EmailField = "pm_email"
	// OtherRecipient is the selection that enables the free-text address.
	OtherRecipient = "other"
	// DefaultDomainSuffix restricts custom recipient addresses.
	DefaultDomainSuffix = "@explore.co.uk"
)

var (
	// ErrRecipientMissing is returned when no recipient has been selected or
	// the "other" address is blank.
	ErrRecipientMissing = errors.New("payload: routing recipient not selected")
	// ErrRecipientInvalid is returned when the custom address does not end in
	// the allowed domain suffix.
	ErrRecipientInvalid = errors.New("payload: routing recipient outside allowed domain")
)

// Recipient is a selectable routing target.
type Recipient struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// Label renders the recipient for pickers.
func (r Recipient) Label() string {
	if r.Name == "" {
		return r.Email
	}
	return r.Name + " <" + r.Email + ">"
}

// Router resolves the routing recipient of a submission.
type Router struct {
	DomainSuffix string
	Recipients   []Recipient
}

// NewRouter builds a router with the default suffix when suffix is empty.
func NewRouter(suffix string, recipients []Recipient) Router {
	if strings.TrimSpace(suffix) == "" {
		suffix = DefaultDomainSuffix
	}
	return Router{
		DomainSuffix: strings.TrimSpace(suffix),
		Recipients:   append([]Recipient(nil), recipients...),
	}
}

// Resolve returns the address a submission is routed to. An empty choice
// resolves to "" with ErrRecipientMissing. The "other" choice requires a
// non-blank address ending in the domain suffix (case-insensitive); a
// mismatch resolves to "" with ErrRecipientInvalid. Any other choice is the
// address itself.
func (r Router) Resolve(choice, other string) (string, error) {
	choice = strings.TrimSpace(choice)
	if choice == "" {
		return "", ErrRecipientMissing
	}
	if choice != OtherRecipient {
		return choice, nil
	}

	address := strings.TrimSpace(other)
	if address == "" {
		return "", ErrRecipientMissing
	}
	if !strings.HasSuffix(strings.ToLower(address), strings.ToLower(r.suffix())) {
		return "", ErrRecipientInvalid
	}
	return address, nil
}

// Known reports whether email is one of the configured recipients.
func (r Router) Known(email string) bool {
	for _, recipient := range r.Recipients {
		if strings.EqualFold(recipient.Email, email) {
			return true
		}
	}
	return false
}

func (r Router) suffix() string {
	if r.DomainSuffix == "" {
		return DefaultDomainSuffix
	}
	return r.DomainSuffix
}
