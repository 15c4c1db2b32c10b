package reporter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivechain-project/sidechain-go/sidechain"
	"github.com/drivechain-project/sidechain-go/sidechaindb"
)

func newBundleTx() *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	prev := wire.OutPoint{Hash: chainhash.Hash{0x55}, Index: 0}
	tx.AddTxIn(wire.NewTxIn(&prev, []byte{txscript.OP_TRUE}, nil))
	tx.AddTxOut(wire.NewTxOut(7000, []byte{txscript.OP_TRUE}))
	return tx
}

func newReporter(t *testing.T) (*HttpReporter, sidechaindb.ObjectStorage, func()) {
	file := fmt.Sprintf("./reporter_test_%d.db", time.Now().UnixNano())
	storage, err := sidechaindb.NewSQLiteObjectStorage(file)
	require.NoError(t, err)

	h := NewHttpReporter("127.0.0.1", "0", storage)
	close := func() {
		storage.Close()
		os.Remove(file)
	}
	return h, storage, close
}

func get(t *testing.T, h *HttpReporter, path string) (int, map[string]json.RawMessage) {
	router := h.SetupRouter()
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	router.ServeHTTP(w, req)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestWithdrawalsRoute(t *testing.T) {
	h, storage, close := newReporter(t)
	defer close()

	wt := &sidechain.WithdrawalRequest{
		SidechainNumber: 3,
		Destination:     "mSomeAddr",
		Amount:          100000,
		MainchainFee:    2500,
		Status:          sidechain.WithdrawalUnspent,
		BlindHash:       chainhash.Hash{0x01},
	}
	require.NoError(t, storage.PutWithdrawal(wt))

	code, body := get(t, h, ROUTE_WITHDRAWALS+"?sidechain=3")
	require.Equal(t, http.StatusOK, code)

	var data []JSONObject
	require.NoError(t, json.Unmarshal(body["data"], &data))
	require.Len(t, data, 1)
	assert.Equal(t, wt.Hash().String(), data[0].Hash)
	assert.Equal(t, "Unspent", data[0].Status)
	assert.Contains(t, data[0].Render, "destination=mSomeAddr")
}

func TestWithdrawalsRouteBadParam(t *testing.T) {
	h, _, close := newReporter(t)
	defer close()

	code, _ := get(t, h, ROUTE_WITHDRAWALS)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = get(t, h, ROUTE_WITHDRAWALS+"?sidechain=70000")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestLatestBundleRoute(t *testing.T) {
	h, storage, close := newReporter(t)
	defer close()

	code, _ := get(t, h, ROUTE_LATEST_BUNDLE+"?sidechain=1")
	assert.Equal(t, http.StatusNotFound, code)

	tx := newBundleTx()
	b := &sidechain.WithdrawalBundle{
		SidechainNumber: 1,
		Tx:              tx,
		Status:          sidechain.BundleCreated,
		Height:          88,
	}
	require.NoError(t, storage.PutBundle(b))

	code, body := get(t, h, ROUTE_LATEST_BUNDLE+"?sidechain=1")
	require.Equal(t, http.StatusOK, code)

	var data JSONObject
	require.NoError(t, json.Unmarshal(body["data"], &data))
	assert.Equal(t, b.Hash().String(), data.Hash)
	assert.Equal(t, int32(88), data.Height)
	assert.Equal(t, "Created", data.Status)
}
