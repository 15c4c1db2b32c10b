// Package sidechain defines the three sidechain record kinds that ride
// inside mainchain commitment outputs (withdrawal request, withdrawal
// bundle, deposit), their canonical identity hashes, their consensus
// wire encoding, and the ordering/filtering primitives used when
// assembling withdrawal bundles.
package sidechain

import (
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// Tag identifies which record kind an encoded payload carries.
// Exactly one tag byte prefixes every encoded object.
type Tag byte

const (
	TagWithdrawal       Tag = 'W' // single withdrawal request (WT)
	TagWithdrawalBundle Tag = 'P' // aggregated withdrawal bundle (WT^)
	TagDeposit          Tag = 'D' // mainchain deposit record
)

// WithdrawalStatus tracks a withdrawal request through its lifecycle.
// Transitions are monotonic: Unspent -> InBundle -> Spent, never back.
type WithdrawalStatus uint8

const (
	WithdrawalUnspent WithdrawalStatus = iota
	WithdrawalInBundle
	WithdrawalSpent
)

// String renders the status for diagnostics. Out-of-range values from
// old or foreign data render as "Unknown" rather than failing.
func (s WithdrawalStatus) String() string {
	switch s {
	case WithdrawalUnspent:
		return "Unspent"
	case WithdrawalInBundle:
		return "Pending - in WT^"
	case WithdrawalSpent:
		return "Spent"
	}
	return "Unknown"
}

// BundleStatus tracks a withdrawal bundle. Created is the only
// non-terminal state; Failed and Spent are terminal.
type BundleStatus uint8

const (
	BundleCreated BundleStatus = iota
	BundleFailed
	BundleSpent
)

func (s BundleStatus) String() string {
	switch s {
	case BundleCreated:
		return "Created"
	case BundleFailed:
		return "Failed"
	case BundleSpent:
		return "Spent"
	}
	return "Unknown"
}

// Object is the closed set of sidechain record kinds. The unexported
// encoder method seals the interface, so hashing and encoding can never
// see a tag that matches no known layout.
type Object interface {
	// Tag returns the kind byte used on the wire.
	Tag() Tag

	// Hash returns the canonical identity of the object: the double
	// SHA256 of its type-specific field serialization. The tag byte and
	// commitment framing are not part of the identity.
	Hash() chainhash.Hash

	// String is a multi-line diagnostic rendering. Not consensus data.
	String() string

	encodeFields(w io.Writer) error
}

// WithdrawalRequest (WT) is a user's request to move coins from the
// sidechain back to the mainchain.
type WithdrawalRequest struct {
	SidechainNumber uint8
	Destination     string // mainchain address the coins pay out to
	Amount          int64  // satoshi
	MainchainFee    int64  // satoshi offered to the bundle creator
	Status          WithdrawalStatus
	BlindHash       chainhash.Hash // hash of the blinded withdrawal tx
}

func (wt *WithdrawalRequest) Tag() Tag { return TagWithdrawal }

// WithdrawalBundle (WT^) aggregates withdrawal requests into one
// candidate mainchain settlement transaction. It references the
// requests only indirectly, via the database, never by embedding them.
type WithdrawalBundle struct {
	SidechainNumber uint8
	Tx              *wire.MsgTx // candidate mainchain settlement tx
	Status          BundleStatus

	// Height is the mainchain block height the bundle was created or
	// observed at, used for recency ordering. It is tracked alongside
	// the bundle by the scanner/database and is neither serialized nor
	// part of the identity hash.
	Height int32
}

func (b *WithdrawalBundle) Tag() Tag { return TagWithdrawalBundle }

// Deposit records value moved from the mainchain into the sidechain.
type Deposit struct {
	SidechainNumber uint8
	KeyID           [20]byte    // recipient key identifier
	PayoutAmount    int64       // satoshi paid out to the user
	Tx              *wire.MsgTx // observed mainchain deposit tx
	Index           uint32      // output index of the deposited output
}

func (d *Deposit) Tag() Tag { return TagDeposit }
