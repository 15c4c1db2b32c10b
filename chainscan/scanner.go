/*
Package chainscan walks mainchain blocks and picks sidechain commitment
outputs out of them.

A commitment output is recognized by its fixed marker+magic header.
Outputs that carry the header but a malformed payload are logged and
skipped; chain data is untrusted and a bad output must never stop the
scan.
*/
package chainscan

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	logger "github.com/sirupsen/logrus"

	"github.com/drivechain-project/sidechain-go/sidechain"
)

// FoundObject is one decoded commitment together with where it sat on
// the chain.
type FoundObject struct {
	Object sidechain.Object
	TxHash chainhash.Hash
	Vout   uint32
	Height int32
}

// ScanTx returns every sidechain object committed in tx's outputs.
// Bundles get their observed height stamped from the containing block.
func ScanTx(tx *wire.MsgTx, height int32) []FoundObject {
	var found []FoundObject
	txHash := tx.TxHash()

	for i, out := range tx.TxOut {
		if !sidechain.IsCommitment(out.PkScript) {
			continue
		}
		obj, err := sidechain.ParseCommitment(out.PkScript)
		if err != nil {
			logger.WithFields(logger.Fields{
				"txid":   txHash.String(),
				"vout":   i,
				"height": height,
			}).Warnf("skipping malformed sidechain commitment: %v", err)
			continue
		}
		if obj == nil {
			// Commitment header with an unknown tag. Not ours.
			continue
		}

		if b, ok := obj.(*sidechain.WithdrawalBundle); ok {
			b.Height = height
		}

		found = append(found, FoundObject{
			Object: obj,
			TxHash: txHash,
			Vout:   uint32(i),
			Height: height,
		})
	}
	return found
}

// ScanBlock returns every sidechain object committed anywhere in block.
func ScanBlock(block *wire.MsgBlock, height int32) []FoundObject {
	var found []FoundObject
	for _, tx := range block.Transactions {
		found = append(found, ScanTx(tx, height)...)
	}
	return found
}
