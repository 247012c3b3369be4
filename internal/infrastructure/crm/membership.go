package crm

import (
	"context"
	"errors"
	"strings"
)

// ContactFetcher is satisfied by *Client.
type ContactFetcher interface {
	GetContact(ctx context.Context, contactID string) (*Contact, error)
}

// MembershipChecker decides whether a CRM contact holds a membership tier
// granting blanket course access.
type MembershipChecker struct {
	contacts ContactFetcher
	fieldID  string
	tiers    map[string]struct{}
	tags     []string
}

func NewMembershipChecker(contacts ContactFetcher, fieldID string, tiers, tags []string) *MembershipChecker {
	set := make(map[string]struct{}, len(tiers))
	for _, t := range tiers {
		set[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	return &MembershipChecker{contacts: contacts, fieldID: fieldID, tiers: set, tags: tags}
}

// HasActiveMembership returns false without error for unknown contacts.
func (m *MembershipChecker) HasActiveMembership(ctx context.Context, contactID string) (bool, error) {
	if contactID == "" || (len(m.tiers) == 0 && len(m.tags) == 0) {
		return false, nil
	}

	contact, err := m.contacts.GetContact(ctx, contactID)
	if errors.Is(err, ErrContactNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if m.fieldID != "" {
		tier := strings.ToLower(strings.TrimSpace(contact.FieldValue(m.fieldID)))
		if _, ok := m.tiers[tier]; ok && tier != "" {
			return true, nil
		}
	}
	for _, tag := range m.tags {
		if contact.HasTag(tag) {
			return true, nil
		}
	}
	return false, nil
}
