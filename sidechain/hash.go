package sidechain

import (
	"bytes"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// hashFields computes the canonical identity of an object: double
// SHA256 over the type-specific field serialization. The tag byte and
// commitment framing never feed the hash. The sealed Object interface
// makes an unknown-tag hash unrepresentable, so there is no silent
// zero-hash path.
func hashFields(obj Object) chainhash.Hash {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer cannot fail.
	_ = obj.encodeFields(&buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

func (wt *WithdrawalRequest) Hash() chainhash.Hash { return hashFields(wt) }

func (b *WithdrawalBundle) Hash() chainhash.Hash { return hashFields(b) }

func (d *Deposit) Hash() chainhash.Hash { return hashFields(d) }
