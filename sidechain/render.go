package sidechain

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
)

// Multi-line diagnostic renderings. These feed logs and the reporter,
// never consensus; amounts use the human money formatting and statuses
// use the permissive String() that tolerates out-of-range values.

func (wt *WithdrawalRequest) String() string {
	var str strings.Builder
	fmt.Fprintf(&str, "sidechainop=%c\n", wt.Tag())
	fmt.Fprintf(&str, "nSidechain=%d\n", wt.SidechainNumber)
	fmt.Fprintf(&str, "destination=%s\n", wt.Destination)
	fmt.Fprintf(&str, "amount=%s\n", btcutil.Amount(wt.Amount))
	fmt.Fprintf(&str, "mainchainFee=%s\n", btcutil.Amount(wt.MainchainFee))
	fmt.Fprintf(&str, "status=%s\n", wt.Status)
	fmt.Fprintf(&str, "hashBlindWTX=%s\n", wt.BlindHash)
	return str.String()
}

func (b *WithdrawalBundle) String() string {
	var str strings.Builder
	fmt.Fprintf(&str, "sidechainop=%c\n", b.Tag())
	fmt.Fprintf(&str, "nSidechain=%d\n", b.SidechainNumber)
	fmt.Fprintf(&str, "wtprime=%s\n", txSummary(b.Tx))
	fmt.Fprintf(&str, "status=%s\n", b.Status)
	fmt.Fprintf(&str, "height=%d\n", b.Height)
	return str.String()
}

func (d *Deposit) String() string {
	var str strings.Builder
	fmt.Fprintf(&str, "sidechainop=%c\n", d.Tag())
	fmt.Fprintf(&str, "nSidechain=%d\n", d.SidechainNumber)
	fmt.Fprintf(&str, "keyID=%s\n", hex.EncodeToString(d.KeyID[:]))
	fmt.Fprintf(&str, "payout=%s\n", btcutil.Amount(d.PayoutAmount))
	if d.Tx != nil {
		fmt.Fprintf(&str, "mainchaintxid=%s\n", d.Tx.TxHash())
	} else {
		str.WriteString("mainchaintxid=<nil>\n")
	}
	fmt.Fprintf(&str, "n=%d\n", d.Index)
	str.WriteString("inputs:\n")
	if d.Tx != nil {
		for _, in := range d.Tx.TxIn {
			fmt.Fprintf(&str, "%s\n", in.PreviousOutPoint.String())
		}
	}
	return str.String()
}

// txSummary is a short one-line rendering of an embedded transaction.
func txSummary(tx *wire.MsgTx) string {
	if tx == nil {
		return "<nil>"
	}
	return fmt.Sprintf("txid=%s version=%d vin=%d vout=%d locktime=%d",
		tx.TxHash(), tx.Version, len(tx.TxIn), len(tx.TxOut), tx.LockTime)
}
