package sidechain

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/btcsuite/btcd/wire"
)

// All multi-byte integer fields use the same fixed-width little-endian
// convention as the surrounding consensus serialization. Strings use
// Bitcoin var-length framing. The protocol version passed to the wire
// helpers is irrelevant for these payloads.
const encodingPver = 0

// Encode returns the type-specific field serialization of obj, in the
// fixed consensus field order. The tag byte is NOT part of this
// payload; commitment framing adds it.
func Encode(obj Object) ([]byte, error) {
	var buf bytes.Buffer
	if err := obj.encodeFields(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads the leading tag byte of b and deserializes the matching
// record kind from the remaining bytes.
//
// Absence is a normal outcome, not an error: an empty b, or a tag byte
// matching no known kind, returns (nil, nil). A known tag with
// truncated or invalid field data returns an error wrapping
// ErrMalformedPayload, never a partially populated object. b is
// untrusted chain data; every field read is bounds-checked against the
// bytes actually present.
func Decode(b []byte) (Object, error) {
	if len(b) == 0 {
		return nil, nil
	}

	r := bytes.NewReader(b[1:])
	switch Tag(b[0]) {
	case TagWithdrawal:
		wt := &WithdrawalRequest{}
		if err := wt.decodeFields(r); err != nil {
			return nil, err
		}
		return wt, nil
	case TagWithdrawalBundle:
		bundle := &WithdrawalBundle{}
		if err := bundle.decodeFields(r); err != nil {
			return nil, err
		}
		return bundle, nil
	case TagDeposit:
		d := &Deposit{}
		if err := d.decodeFields(r); err != nil {
			return nil, err
		}
		return d, nil
	}

	return nil, nil
}

// Field order: sidechain number, destination, amount, mainchain fee,
// status, blinded-tx hash. Consensus-fixed.
func (wt *WithdrawalRequest) encodeFields(w io.Writer) error {
	if err := writeUint8(w, wt.SidechainNumber); err != nil {
		return err
	}
	if err := wire.WriteVarString(w, encodingPver, wt.Destination); err != nil {
		return err
	}
	if err := writeInt64(w, wt.Amount); err != nil {
		return err
	}
	if err := writeInt64(w, wt.MainchainFee); err != nil {
		return err
	}
	if err := writeUint8(w, uint8(wt.Status)); err != nil {
		return err
	}
	_, err := w.Write(wt.BlindHash[:])
	return err
}

func (wt *WithdrawalRequest) decodeFields(r io.Reader) error {
	var err error
	if wt.SidechainNumber, err = readUint8(r); err != nil {
		return malformed(TagWithdrawal, "sidechain number", err)
	}
	if wt.Destination, err = wire.ReadVarString(r, encodingPver); err != nil {
		return malformed(TagWithdrawal, "destination", err)
	}
	if wt.Amount, err = readInt64(r); err != nil {
		return malformed(TagWithdrawal, "amount", err)
	}
	if wt.Amount < 0 {
		return malformed(TagWithdrawal, "amount", errors.New("negative amount"))
	}
	if wt.MainchainFee, err = readInt64(r); err != nil {
		return malformed(TagWithdrawal, "mainchain fee", err)
	}
	if wt.MainchainFee < 0 {
		return malformed(TagWithdrawal, "mainchain fee", errors.New("negative amount"))
	}
	status, err := readUint8(r)
	if err != nil {
		return malformed(TagWithdrawal, "status", err)
	}
	wt.Status = WithdrawalStatus(status)
	if _, err := io.ReadFull(r, wt.BlindHash[:]); err != nil {
		return malformed(TagWithdrawal, "blinded-tx hash", err)
	}
	return nil
}

// Field order: sidechain number, bundle transaction, status. Height is
// tracked alongside the bundle, not serialized. Consensus-fixed.
func (b *WithdrawalBundle) encodeFields(w io.Writer) error {
	if b.Tx == nil {
		return errors.New("withdrawal bundle has no transaction")
	}
	if err := writeUint8(w, b.SidechainNumber); err != nil {
		return err
	}
	if err := b.Tx.Serialize(w); err != nil {
		return err
	}
	return writeUint8(w, uint8(b.Status))
}

func (b *WithdrawalBundle) decodeFields(r io.Reader) error {
	var err error
	if b.SidechainNumber, err = readUint8(r); err != nil {
		return malformed(TagWithdrawalBundle, "sidechain number", err)
	}
	tx := wire.NewMsgTx(wire.TxVersion)
	if err := tx.Deserialize(r); err != nil {
		return malformed(TagWithdrawalBundle, "bundle transaction", err)
	}
	b.Tx = tx
	status, err := readUint8(r)
	if err != nil {
		return malformed(TagWithdrawalBundle, "status", err)
	}
	b.Status = BundleStatus(status)
	return nil
}

// Field order: sidechain number, key identifier, payout amount, deposit
// transaction, output index. Consensus-fixed.
func (d *Deposit) encodeFields(w io.Writer) error {
	if d.Tx == nil {
		return errors.New("deposit has no transaction")
	}
	if err := writeUint8(w, d.SidechainNumber); err != nil {
		return err
	}
	if _, err := w.Write(d.KeyID[:]); err != nil {
		return err
	}
	if err := writeInt64(w, d.PayoutAmount); err != nil {
		return err
	}
	if err := d.Tx.Serialize(w); err != nil {
		return err
	}
	return writeUint32(w, d.Index)
}

func (d *Deposit) decodeFields(r io.Reader) error {
	var err error
	if d.SidechainNumber, err = readUint8(r); err != nil {
		return malformed(TagDeposit, "sidechain number", err)
	}
	if _, err := io.ReadFull(r, d.KeyID[:]); err != nil {
		return malformed(TagDeposit, "key identifier", err)
	}
	if d.PayoutAmount, err = readInt64(r); err != nil {
		return malformed(TagDeposit, "payout amount", err)
	}
	if d.PayoutAmount < 0 {
		return malformed(TagDeposit, "payout amount", errors.New("negative amount"))
	}
	tx := wire.NewMsgTx(wire.TxVersion)
	if err := tx.Deserialize(r); err != nil {
		return malformed(TagDeposit, "deposit transaction", err)
	}
	d.Tx = tx
	if d.Index, err = readUint32(r); err != nil {
		return malformed(TagDeposit, "output index", err)
	}
	return nil
}

func writeUint8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func writeUint32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func writeInt64(w io.Writer, v int64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	_, err := w.Write(b[:])
	return err
}

func readUint8(r io.Reader) (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readInt64(r io.Reader) (int64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
