package bundler

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivechain-project/sidechain-go/sidechain"
)

var testParams = &chaincfg.RegressionNetParams

func destAddr(t *testing.T, seed byte) string {
	pkHash := make([]byte, 20)
	pkHash[0] = seed
	addr, err := btcutil.NewAddressPubKeyHash(pkHash, testParams)
	require.NoError(t, err)
	return addr.EncodeAddress()
}

func wt(t *testing.T, seed byte, amount, fee int64, status sidechain.WithdrawalStatus) sidechain.WithdrawalRequest {
	return sidechain.WithdrawalRequest{
		SidechainNumber: 1,
		Destination:     destAddr(t, seed),
		Amount:          amount,
		MainchainFee:    fee,
		Status:          status,
	}
}

func TestAssembleFeeOrder(t *testing.T) {
	wts := []sidechain.WithdrawalRequest{
		wt(t, 1, 10000, 500, sidechain.WithdrawalUnspent),
		wt(t, 2, 20000, 900, sidechain.WithdrawalUnspent),
		wt(t, 3, 30000, 100, sidechain.WithdrawalUnspent),
	}

	bundle, err := Assemble(1, wts, &Config{ChainConfig: testParams})
	require.NoError(t, err)
	require.NotNil(t, bundle)

	assert.Equal(t, uint8(1), bundle.SidechainNumber)
	assert.Equal(t, sidechain.BundleCreated, bundle.Status)
	require.Len(t, bundle.Tx.TxOut, 3)
	// Outputs follow fee priority: 900, 500, 100.
	assert.Equal(t, int64(20000), bundle.Tx.TxOut[0].Value)
	assert.Equal(t, int64(10000), bundle.Tx.TxOut[1].Value)
	assert.Equal(t, int64(30000), bundle.Tx.TxOut[2].Value)
}

func TestAssemblePaysRequestedDestinations(t *testing.T) {
	req := wt(t, 7, 15000, 100, sidechain.WithdrawalUnspent)

	bundle, err := Assemble(1, []sidechain.WithdrawalRequest{req}, &Config{ChainConfig: testParams})
	require.NoError(t, err)
	require.Len(t, bundle.Tx.TxOut, 1)

	_, addrs, _, err := txscript.ExtractPkScriptAddrs(bundle.Tx.TxOut[0].PkScript, testParams)
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	assert.Equal(t, req.Destination, addrs[0].EncodeAddress())
}

func TestAssembleSkipsNonUnspent(t *testing.T) {
	wts := []sidechain.WithdrawalRequest{
		wt(t, 1, 10000, 500, sidechain.WithdrawalSpent),
		wt(t, 2, 20000, 900, sidechain.WithdrawalUnspent),
		wt(t, 3, 30000, 100, sidechain.WithdrawalInBundle),
	}

	bundle, err := Assemble(1, wts, &Config{ChainConfig: testParams})
	require.NoError(t, err)
	require.Len(t, bundle.Tx.TxOut, 1)
	assert.Equal(t, int64(20000), bundle.Tx.TxOut[0].Value)
}

func TestAssembleBudgets(t *testing.T) {
	wts := []sidechain.WithdrawalRequest{
		wt(t, 1, 10000, 500, sidechain.WithdrawalUnspent),
		wt(t, 2, 20000, 900, sidechain.WithdrawalUnspent),
		wt(t, 3, 30000, 100, sidechain.WithdrawalUnspent),
	}

	bundle, err := Assemble(1, wts, &Config{ChainConfig: testParams, MaxOutputs: 2})
	require.NoError(t, err)
	assert.Len(t, bundle.Tx.TxOut, 2)

	// Value cap cuts the fee-ordered prefix: 20000 fits, 20000+10000
	// exceeds 25000.
	bundle, err = Assemble(1, wts, &Config{ChainConfig: testParams, MaxValue: 25000})
	require.NoError(t, err)
	require.Len(t, bundle.Tx.TxOut, 1)
	assert.Equal(t, int64(20000), bundle.Tx.TxOut[0].Value)
}

func TestAssembleSkipsBadDestination(t *testing.T) {
	bad := wt(t, 1, 10000, 900, sidechain.WithdrawalUnspent)
	bad.Destination = "not-an-address"
	good := wt(t, 2, 20000, 100, sidechain.WithdrawalUnspent)

	bundle, err := Assemble(1, []sidechain.WithdrawalRequest{bad, good}, &Config{ChainConfig: testParams})
	require.NoError(t, err)
	require.Len(t, bundle.Tx.TxOut, 1)
	assert.Equal(t, int64(20000), bundle.Tx.TxOut[0].Value)
}

func TestAssembleNothingToBundle(t *testing.T) {
	_, err := Assemble(1, nil, &Config{ChainConfig: testParams})
	assert.ErrorIs(t, err, ErrNoWithdrawals)

	_, err = Assemble(1, []sidechain.WithdrawalRequest{
		wt(t, 1, 10000, 500, sidechain.WithdrawalSpent),
	}, &Config{ChainConfig: testParams})
	assert.ErrorIs(t, err, ErrNoWithdrawals)
}

// An assembled bundle must survive the commitment round trip.
func TestAssembledBundleRoundTrips(t *testing.T) {
	wts := []sidechain.WithdrawalRequest{
		wt(t, 1, 10000, 500, sidechain.WithdrawalUnspent),
		wt(t, 2, 20000, 900, sidechain.WithdrawalUnspent),
	}

	bundle, err := Assemble(1, wts, &Config{ChainConfig: testParams})
	require.NoError(t, err)

	script, err := sidechain.BuildCommitment(bundle)
	require.NoError(t, err)

	obj, err := sidechain.ParseCommitment(script)
	require.NoError(t, err)
	require.NotNil(t, obj)
	assert.Equal(t, bundle.Hash(), obj.Hash())
	got := obj.(*sidechain.WithdrawalBundle)
	assert.Len(t, got.Tx.TxOut, 2)
}
