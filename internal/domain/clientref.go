package domain

// ClientKind discriminates which collaborator entity owns a payment's debt.
type ClientKind int

const (
	ClientKindNone ClientKind = iota
	ClientKindCustomer
	ClientKindLegacy
)

// ClientRef is the resolved owner of a payment's debt balance: a regular
// customer or a legacy client, never both. Resolved once per payment instead
// of re-checking two optional fields at every use site.
type ClientRef struct {
	Kind ClientKind
	ID   string
}

// ResolveClientRef maps the two optional reference fields on a payment to a
// single tagged value. CustomerID wins if both are somehow populated.
func ResolveClientRef(customerID, legacyClientID *string) ClientRef {
	if customerID != nil && *customerID != "" {
		return ClientRef{Kind: ClientKindCustomer, ID: *customerID}
	}
	if legacyClientID != nil && *legacyClientID != "" {
		return ClientRef{Kind: ClientKindLegacy, ID: *legacyClientID}
	}
	return ClientRef{Kind: ClientKindNone}
}

func (r ClientRef) String() string {
	switch r.Kind {
	case ClientKindCustomer:
		return "customer:" + r.ID
	case ClientKindLegacy:
		return "legacy:" + r.ID
	default:
		return "none"
	}
}
