package sidechain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithdrawalStatusStrings(t *testing.T) {
	assert.Equal(t, "Unspent", WithdrawalUnspent.String())
	assert.Equal(t, "Pending - in WT^", WithdrawalInBundle.String())
	assert.Equal(t, "Spent", WithdrawalSpent.String())
	// Out-of-range values render permissively, never fail.
	assert.Equal(t, "Unknown", WithdrawalStatus(3).String())
	assert.Equal(t, "Unknown", WithdrawalStatus(200).String())
}

func TestBundleStatusStrings(t *testing.T) {
	assert.Equal(t, "Created", BundleCreated.String())
	assert.Equal(t, "Failed", BundleFailed.String())
	assert.Equal(t, "Spent", BundleSpent.String())
	assert.Equal(t, "Unknown", BundleStatus(77).String())
}

func TestWithdrawalRender(t *testing.T) {
	s := testWithdrawal().String()

	assert.Contains(t, s, "sidechainop=W")
	assert.Contains(t, s, "nSidechain=2")
	assert.Contains(t, s, "destination=mSomeAddr")
	assert.Contains(t, s, "mainchainFee=")
	assert.Contains(t, s, "status=Unspent")
	assert.Contains(t, s, "hashBlindWTX=")
	assert.True(t, strings.Count(s, "\n") >= 6, "expected a multi-line rendering")
}

func TestBundleRender(t *testing.T) {
	b := &WithdrawalBundle{
		SidechainNumber: 1,
		Tx:              testTx(),
		Status:          BundleCreated,
		Height:          42,
	}
	s := b.String()

	assert.Contains(t, s, "sidechainop=P")
	assert.Contains(t, s, "wtprime=txid=")
	assert.Contains(t, s, "status=Created")
	assert.Contains(t, s, "height=42")
}

func TestDepositRender(t *testing.T) {
	d := &Deposit{
		SidechainNumber: 5,
		KeyID:           [20]byte{0xde, 0xad},
		PayoutAmount:    250000,
		Tx:              testTx(),
		Index:           1,
	}
	s := d.String()

	assert.Contains(t, s, "sidechainop=D")
	assert.Contains(t, s, "keyID=dead")
	assert.Contains(t, s, "mainchaintxid=")
	assert.Contains(t, s, "n=1")
	assert.Contains(t, s, "inputs:")
}
