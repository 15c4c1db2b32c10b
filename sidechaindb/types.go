// Package sidechaindb persists raw sidechain object payloads keyed by
// their identity hash, and applies the status lifecycle transitions
// the consensus layer decides on.
package sidechaindb

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/drivechain-project/sidechain-go/sidechain"
)

// ObjectStorage is the store backing the chain scanner and the bundle
// assembly logic. Absence is reported as a nil object, not an error.
//
// Records are keyed by the identity hash the object had when it was
// first stored; status transitions rewrite the payload in place and do
// not re-key the record.
type ObjectStorage interface {
	// PutWithdrawal stores wt keyed by its identity hash. Storing the
	// same hash again replaces the record (objects are values, the
	// payload is identical).
	PutWithdrawal(wt *sidechain.WithdrawalRequest) error

	// GetWithdrawal returns the withdrawal stored under hash, or nil.
	GetWithdrawal(hash chainhash.Hash) (*sidechain.WithdrawalRequest, error)

	// GetWithdrawalsBySidechain returns every stored withdrawal for the
	// given sidechain number.
	GetWithdrawalsBySidechain(nSidechain uint8) ([]sidechain.WithdrawalRequest, error)

	// GetUnspentWithdrawals returns the stored withdrawals for the
	// given sidechain that are still Unspent, in storage order.
	GetUnspentWithdrawals(nSidechain uint8) ([]sidechain.WithdrawalRequest, error)

	// UpdateWithdrawalStatus applies a status transition to the
	// withdrawal stored under hash. Transitions are monotonic
	// (Unspent -> InBundle -> Spent); anything else returns
	// ErrInvalidStatusTransition.
	UpdateWithdrawalStatus(hash chainhash.Hash, status sidechain.WithdrawalStatus) error

	// PutBundle stores b (including its observed height) keyed by its
	// identity hash.
	PutBundle(b *sidechain.WithdrawalBundle) error

	// GetBundlesBySidechain returns every stored bundle for the given
	// sidechain number.
	GetBundlesBySidechain(nSidechain uint8) ([]sidechain.WithdrawalBundle, error)

	// LatestBundle returns the most recently observed bundle for the
	// given sidechain, or nil if none is stored.
	LatestBundle(nSidechain uint8) (*sidechain.WithdrawalBundle, error)

	// UpdateBundleStatus applies a status transition to the bundle
	// stored under hash. Created may move to Failed or Spent; both are
	// terminal.
	UpdateBundleStatus(hash chainhash.Hash, status sidechain.BundleStatus) error

	// PutDeposit stores d keyed by its identity hash.
	PutDeposit(d *sidechain.Deposit) error

	// GetDepositsBySidechain returns every stored deposit for the given
	// sidechain number.
	GetDepositsBySidechain(nSidechain uint8) ([]sidechain.Deposit, error)

	Close() error
}
