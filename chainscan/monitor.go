package chainscan

/*
The monitor is the polling caller of the scanner. It follows the chain
tip through a BlockSource, scans each new block for commitments, and
files the decoded objects in the object storage.
*/

import (
	"fmt"
	"time"

	"github.com/btcsuite/btcd/wire"
	logger "github.com/sirupsen/logrus"

	"github.com/drivechain-project/sidechain-go/sidechain"
	"github.com/drivechain-project/sidechain-go/sidechaindb"
)

const (
	SCAN_INTERVAL = 3 * time.Second // pause between scan rounds
)

// BlockSource hands blocks to the monitor. The rpcclient-backed
// implementation talks to a mainchain node; tests use an in-memory one.
type BlockSource interface {
	GetLatestBlockHeight() (int64, error)
	GetBlockByHeight(height int64) (*wire.MsgBlock, error)
}

type Monitor struct {
	Source                 BlockSource
	Storage                sidechaindb.ObjectStorage
	LastVisitedBlockHeight int64 // last mainchain block height scanned
}

func NewMonitor(source BlockSource, storage sidechaindb.ObjectStorage, startBlock int64) *Monitor {
	return &Monitor{
		Source:                 source,
		Storage:                storage,
		LastVisitedBlockHeight: startBlock,
	}
}

// store files one decoded object under its identity hash.
func (m *Monitor) store(f FoundObject) error {
	switch obj := f.Object.(type) {
	case *sidechain.WithdrawalRequest:
		return m.Storage.PutWithdrawal(obj)
	case *sidechain.WithdrawalBundle:
		return m.Storage.PutBundle(obj)
	case *sidechain.Deposit:
		return m.Storage.PutDeposit(obj)
	}
	return fmt.Errorf("unhandled sidechain object tag %q", byte(f.Object.Tag()))
}

// Scan runs a single round: fetch the blocks past the last visited
// height, scan each for commitments, and store what decodes.
func (m *Monitor) Scan() error {
	latest, err := m.Source.GetLatestBlockHeight()
	if err != nil {
		return fmt.Errorf("failed to get latest block height: %v", err)
	}

	if latest <= m.LastVisitedBlockHeight {
		return nil // no new blocks, no error
	}

	logger.WithFields(logger.Fields{
		"latestBlockHeight":      latest,
		"lastVisitedBlockHeight": m.LastVisitedBlockHeight,
	}).Debug("scanning mainchain blocks for sidechain commitments")

	for h := m.LastVisitedBlockHeight + 1; h <= latest; h++ {
		block, err := m.Source.GetBlockByHeight(h)
		if err != nil {
			return fmt.Errorf("failed to get block at height %d: %v", h, err)
		}

		for _, f := range ScanBlock(block, int32(h)) {
			if err := m.store(f); err != nil {
				return fmt.Errorf("failed to store object %s from tx %s: %v",
					f.Object.Hash(), f.TxHash, err)
			}
			logger.WithFields(logger.Fields{
				"tag":    fmt.Sprintf("%c", f.Object.Tag()),
				"hash":   f.Object.Hash().String(),
				"txid":   f.TxHash.String(),
				"vout":   f.Vout,
				"height": f.Height,
			}).Info("Sidechain commitment found")
		}

		m.LastVisitedBlockHeight = h
	}
	return nil
}

// ScanLoop keeps scanning until the process stops.
func (m *Monitor) ScanLoop() {
	for {
		if err := m.Scan(); err != nil {
			logger.Warnf("chainscan loop error: %v", err)
		}
		time.Sleep(SCAN_INTERVAL)
	}
}
