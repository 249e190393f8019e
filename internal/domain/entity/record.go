package entity

import "encoding/json"

// IdentityKind discriminates how a record is addressable on an explorer.
type IdentityKind int

const (
	// IdentityGroup identifies a record by its atomic group id.
	IdentityGroup IdentityKind = iota
	// IdentitySingle identifies a record by a single transaction id.
	IdentitySingle
)

// Identity is the explorer-addressable identity of a normalized record:
// either the outer transaction's group id or its transaction id, never both.
// Modeled as a tagged value so the mutual exclusivity cannot be violated.
type Identity struct {
	Kind IdentityKind
	Ref  string
}

// GroupIdentity returns an identity referencing an atomic transaction group.
func GroupIdentity(groupID string) Identity {
	return Identity{Kind: IdentityGroup, Ref: groupID}
}

// SingleIdentity returns an identity referencing a single transaction.
func SingleIdentity(txID string) Identity {
	return Identity{Kind: IdentitySingle, Ref: txID}
}

// IdentityOf derives the identity of a leaf record from its outer
// transaction: the group id when the transaction belongs to an atomic group,
// the transaction id otherwise. Inner transactions are not independently
// addressable, so the outer transaction always supplies the identity.
func IdentityOf(outer *RawTransaction) Identity {
	if outer.Group != "" {
		return GroupIdentity(outer.Group)
	}
	return SingleIdentity(outer.ID)
}

// NormalizedRecord is a single value movement seen from the home address's
// perspective. Amount is signed in base units: positive means funds moved
// into the home address, negative means funds moved out. Exactly one of
// Sender/Receiver is set, naming the counterparty on the other side.
type NormalizedRecord struct {
	RoundTime int64
	Round     uint64
	Identity  Identity
	Asset     uint64
	Amount    int64
	Sender    string
	Receiver  string
}

// Entry returns the positional reference of the record for link building.
func (r *NormalizedRecord) Entry() TransactionEntry {
	return TransactionEntry{
		RoundTime: r.RoundTime,
		Round:     r.Round,
		Identity:  r.Identity,
	}
}

// TransactionEntry is a positional reference to a record, sufficient to
// build an explorer link and to render the record's date.
type TransactionEntry struct {
	RoundTime int64
	Round     uint64
	Identity  Identity
}

// MarshalJSON renders the entry in the indexer's flat wire shape, with a
// single "group" or "id" key depending on the identity kind.
func (e TransactionEntry) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"round-time": e.RoundTime,
		"round":      e.Round,
	}
	switch e.Identity.Kind {
	case IdentityGroup:
		m["group"] = e.Identity.Ref
	default:
		m["id"] = e.Identity.Ref
	}
	return json.Marshal(m)
}
