package sidechaindb

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	_ "github.com/mattn/go-sqlite3"

	"github.com/drivechain-project/sidechain-go/sidechain"
)

var (
	// ErrNotFound reports a status update against a hash with no record.
	ErrNotFound = errors.New("sidechain object not found")

	// ErrInvalidStatusTransition reports a lifecycle violation: moving a
	// withdrawal backwards, leaving a terminal bundle state, or using a
	// status value outside the closed set.
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

// SQLiteObjectStorage implements ObjectStorage on a sqlite file. The
// payload column holds the tagged wire payload (tag byte + field
// serialization), so a row round-trips through sidechain.Decode; the
// remaining columns exist for querying.
type SQLiteObjectStorage struct {
	db *sql.DB
}

func NewSQLiteObjectStorage(dbPath string) (*SQLiteObjectStorage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Create tables if not exist
	query := `
	CREATE TABLE IF NOT EXISTS sidechain_wt (
		hash TEXT PRIMARY KEY,
		sidechain_number INTEGER,
		status INTEGER,
		payload BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_wt_sidechain ON sidechain_wt(sidechain_number);
	CREATE TABLE IF NOT EXISTS sidechain_wtprime (
		hash TEXT PRIMARY KEY,
		sidechain_number INTEGER,
		status INTEGER,
		height INTEGER,
		payload BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_wtprime_sidechain ON sidechain_wtprime(sidechain_number);
	CREATE TABLE IF NOT EXISTS sidechain_deposit (
		hash TEXT PRIMARY KEY,
		sidechain_number INTEGER,
		payload BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_deposit_sidechain ON sidechain_deposit(sidechain_number);
	`
	_, err = db.Exec(query)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteObjectStorage{db: db}, nil
}

func (s *SQLiteObjectStorage) Close() error {
	return s.db.Close()
}

// taggedPayload is the Decode-input form of obj: tag byte + fields.
func taggedPayload(obj sidechain.Object) ([]byte, error) {
	payload, err := sidechain.Encode(obj)
	if err != nil {
		return nil, err
	}
	return append([]byte{byte(obj.Tag())}, payload...), nil
}

func (s *SQLiteObjectStorage) PutWithdrawal(wt *sidechain.WithdrawalRequest) error {
	payload, err := taggedPayload(wt)
	if err != nil {
		return err
	}
	query := `INSERT OR REPLACE INTO sidechain_wt (hash, sidechain_number, status, payload) VALUES (?, ?, ?, ?)`
	_, err = s.db.Exec(query, wt.Hash().String(), wt.SidechainNumber, wt.Status, payload)
	return err
}

func decodeWithdrawal(payload []byte) (*sidechain.WithdrawalRequest, error) {
	obj, err := sidechain.Decode(payload)
	if err != nil {
		return nil, err
	}
	wt, ok := obj.(*sidechain.WithdrawalRequest)
	if !ok {
		return nil, fmt.Errorf("stored payload is not a withdrawal request")
	}
	return wt, nil
}

func (s *SQLiteObjectStorage) GetWithdrawal(hash chainhash.Hash) (*sidechain.WithdrawalRequest, error) {
	query := `SELECT payload FROM sidechain_wt WHERE hash = ?`
	var payload []byte
	err := s.db.QueryRow(query, hash.String()).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeWithdrawal(payload)
}

func (s *SQLiteObjectStorage) GetWithdrawalsBySidechain(nSidechain uint8) ([]sidechain.WithdrawalRequest, error) {
	query := `SELECT payload FROM sidechain_wt WHERE sidechain_number = ? ORDER BY hash`
	rows, err := s.db.Query(query, nSidechain)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wts []sidechain.WithdrawalRequest
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		wt, err := decodeWithdrawal(payload)
		if err != nil {
			return nil, err
		}
		wts = append(wts, *wt)
	}
	return wts, rows.Err()
}

func (s *SQLiteObjectStorage) GetUnspentWithdrawals(nSidechain uint8) ([]sidechain.WithdrawalRequest, error) {
	wts, err := s.GetWithdrawalsBySidechain(nSidechain)
	if err != nil {
		return nil, err
	}
	return sidechain.FilterUnspentWithdrawals(wts), nil
}

func (s *SQLiteObjectStorage) UpdateWithdrawalStatus(hash chainhash.Hash, status sidechain.WithdrawalStatus) error {
	if status > sidechain.WithdrawalSpent {
		return fmt.Errorf("%w: unknown withdrawal status %d", ErrInvalidStatusTransition, status)
	}

	wt, err := s.GetWithdrawal(hash)
	if err != nil {
		return err
	}
	if wt == nil {
		return ErrNotFound
	}
	if status == wt.Status {
		return nil
	}
	if status < wt.Status {
		return fmt.Errorf("%w: withdrawal %s -> %s", ErrInvalidStatusTransition, wt.Status, status)
	}

	wt.Status = status
	payload, err := taggedPayload(wt)
	if err != nil {
		return err
	}
	query := `UPDATE sidechain_wt SET status = ?, payload = ? WHERE hash = ?`
	_, err = s.db.Exec(query, status, payload, hash.String())
	return err
}

func (s *SQLiteObjectStorage) PutBundle(b *sidechain.WithdrawalBundle) error {
	payload, err := taggedPayload(b)
	if err != nil {
		return err
	}
	query := `INSERT OR REPLACE INTO sidechain_wtprime (hash, sidechain_number, status, height, payload) VALUES (?, ?, ?, ?, ?)`
	_, err = s.db.Exec(query, b.Hash().String(), b.SidechainNumber, b.Status, b.Height, payload)
	return err
}

func decodeBundle(payload []byte, height int32) (*sidechain.WithdrawalBundle, error) {
	obj, err := sidechain.Decode(payload)
	if err != nil {
		return nil, err
	}
	b, ok := obj.(*sidechain.WithdrawalBundle)
	if !ok {
		return nil, fmt.Errorf("stored payload is not a withdrawal bundle")
	}
	// Height lives in its own column, not in the payload.
	b.Height = height
	return b, nil
}

func (s *SQLiteObjectStorage) getBundle(hash chainhash.Hash) (*sidechain.WithdrawalBundle, error) {
	query := `SELECT payload, height FROM sidechain_wtprime WHERE hash = ?`
	var payload []byte
	var height int32
	err := s.db.QueryRow(query, hash.String()).Scan(&payload, &height)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeBundle(payload, height)
}

func (s *SQLiteObjectStorage) GetBundlesBySidechain(nSidechain uint8) ([]sidechain.WithdrawalBundle, error) {
	query := `SELECT payload, height FROM sidechain_wtprime WHERE sidechain_number = ? ORDER BY hash`
	rows, err := s.db.Query(query, nSidechain)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bundles []sidechain.WithdrawalBundle
	for rows.Next() {
		var payload []byte
		var height int32
		if err := rows.Scan(&payload, &height); err != nil {
			return nil, err
		}
		b, err := decodeBundle(payload, height)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, *b)
	}
	return bundles, rows.Err()
}

func (s *SQLiteObjectStorage) LatestBundle(nSidechain uint8) (*sidechain.WithdrawalBundle, error) {
	bundles, err := s.GetBundlesBySidechain(nSidechain)
	if err != nil {
		return nil, err
	}
	if len(bundles) == 0 {
		return nil, nil
	}
	sidechain.SortBundlesByHeight(bundles)
	return &bundles[0], nil
}

func (s *SQLiteObjectStorage) UpdateBundleStatus(hash chainhash.Hash, status sidechain.BundleStatus) error {
	if status > sidechain.BundleSpent {
		return fmt.Errorf("%w: unknown bundle status %d", ErrInvalidStatusTransition, status)
	}

	b, err := s.getBundle(hash)
	if err != nil {
		return err
	}
	if b == nil {
		return ErrNotFound
	}
	if status == b.Status {
		return nil
	}
	// Failed and Spent are terminal; only Created may move.
	if b.Status != sidechain.BundleCreated {
		return fmt.Errorf("%w: bundle %s -> %s", ErrInvalidStatusTransition, b.Status, status)
	}

	b.Status = status
	payload, err := taggedPayload(b)
	if err != nil {
		return err
	}
	query := `UPDATE sidechain_wtprime SET status = ?, payload = ? WHERE hash = ?`
	_, err = s.db.Exec(query, status, payload, hash.String())
	return err
}

func (s *SQLiteObjectStorage) PutDeposit(d *sidechain.Deposit) error {
	payload, err := taggedPayload(d)
	if err != nil {
		return err
	}
	query := `INSERT OR REPLACE INTO sidechain_deposit (hash, sidechain_number, payload) VALUES (?, ?, ?)`
	_, err = s.db.Exec(query, d.Hash().String(), d.SidechainNumber, payload)
	return err
}

func (s *SQLiteObjectStorage) GetDepositsBySidechain(nSidechain uint8) ([]sidechain.Deposit, error) {
	query := `SELECT payload FROM sidechain_deposit WHERE sidechain_number = ? ORDER BY hash`
	rows, err := s.db.Query(query, nSidechain)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deposits []sidechain.Deposit
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		obj, err := sidechain.Decode(payload)
		if err != nil {
			return nil, err
		}
		d, ok := obj.(*sidechain.Deposit)
		if !ok {
			return nil, fmt.Errorf("stored payload is not a deposit")
		}
		deposits = append(deposits, *d)
	}
	return deposits, rows.Err()
}
