/*
Package bundler assembles candidate withdrawal bundles (WT^).

It takes the withdrawal requests accumulated by the database, keeps the
unspent ones, orders them highest mainchain fee first, and pays each
destination from one candidate settlement transaction, up to the
configured budget. The resulting bundle still has to win mainchain
approval; this package only builds the candidate.
*/
package bundler

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	logger "github.com/sirupsen/logrus"

	"github.com/drivechain-project/sidechain-go/sidechain"
)

// ErrNoWithdrawals reports that no unspent request with a payable
// destination was available within the budget.
var ErrNoWithdrawals = errors.New("no withdrawals to bundle")

type Config struct {
	ChainConfig *chaincfg.Params // which mainchain the destinations live on
	MaxOutputs  int              // max withdrawals per bundle, 0 = unlimited
	MaxValue    int64            // satoshi cap on total withdrawn value, 0 = unlimited
}

// Assemble builds a candidate bundle for one sidechain out of wts.
// Requests are considered in fee-priority order; a request whose
// destination does not parse for the configured chain is skipped with a
// warning rather than aborting the bundle. The input slice is not
// modified.
func Assemble(nSidechain uint8, wts []sidechain.WithdrawalRequest, cfg *Config) (*sidechain.WithdrawalBundle, error) {
	candidates := sidechain.FilterUnspentWithdrawals(wts)
	sidechain.SortWithdrawalsByFee(candidates)

	tx := wire.NewMsgTx(wire.TxVersion)

	// Coinbase-style placeholder input. The mainchain supplies the real
	// funding input when the bundle settles, and a zero-input tx is
	// ambiguous with the segwit marker byte on the wire.
	prev := wire.OutPoint{Index: wire.MaxPrevOutIndex}
	tx.AddTxIn(wire.NewTxIn(&prev, nil, nil))

	var total int64
	for _, wt := range candidates {
		if cfg.MaxOutputs > 0 && len(tx.TxOut) >= cfg.MaxOutputs {
			break
		}
		if cfg.MaxValue > 0 && total+wt.Amount > cfg.MaxValue {
			break
		}

		addr, err := btcutil.DecodeAddress(wt.Destination, cfg.ChainConfig)
		if err != nil {
			logger.WithFields(logger.Fields{
				"hash":        wt.Hash().String(),
				"destination": wt.Destination,
			}).Warnf("skipping withdrawal with unpayable destination: %v", err)
			continue
		}
		script, err := txscript.PayToAddrScript(addr)
		if err != nil {
			return nil, fmt.Errorf("failed to build payout script for %s: %v", wt.Destination, err)
		}

		tx.AddTxOut(wire.NewTxOut(wt.Amount, script))
		total += wt.Amount
	}

	if len(tx.TxOut) == 0 {
		return nil, ErrNoWithdrawals
	}

	return &sidechain.WithdrawalBundle{
		SidechainNumber: nSidechain,
		Tx:              tx,
		Status:          sidechain.BundleCreated,
	}, nil
}
