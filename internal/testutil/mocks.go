// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 asaforge Authors

// Package testutil provides stub node, indexer, signer and uploader
// implementations with call counting, so lifecycle and recovery behavior
// can be asserted without any network dependency.
package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/asaforge-algo/asaforge/internal/algo"
)

// StubNode implements algo.Node from in-memory fixtures. Zero-valued
// fields produce sensible defaults; counters record how often each RPC was
// hit.
type StubNode struct {
	Round    uint64
	Params   types.SuggestedParams
	Accounts map[string]models.Account
	Assets   map[uint64]models.Asset

	// Pending maps txid to the confirmation returned by
	// PendingTransactionInformation. A missing entry yields an unconfirmed
	// response. ConfirmAfter delays confirmation until that many polls
	// have happened.
	Pending      map[string]*algo.Confirmation
	ConfirmAfter int

	// BroadcastTxID is returned from SendRawTransaction.
	BroadcastTxID string

	// Errors to inject per call.
	SendErr    error
	AccountErr error
	AssetErr   error

	SuggestedParamsCalls int
	SendCalls            int
	PendingCalls         int
	StatusCalls          int
	WaitCalls            int
	AccountCalls         int
	AssetCalls           int
}

// NewStubNode returns a stub with one round of history and default params.
func NewStubNode() *StubNode {
	return &StubNode{
		Round:    1000,
		Params:   types.SuggestedParams{Fee: 1000, FirstRoundValid: 1000, LastRoundValid: 2000, GenesisID: "testnet-v1.0", GenesisHash: make([]byte, 32)},
		Accounts: make(map[string]models.Account),
		Assets:   make(map[uint64]models.Asset),
		Pending:  make(map[string]*algo.Confirmation),
	}
}

func (s *StubNode) SuggestedParams(ctx context.Context) (types.SuggestedParams, error) {
	s.SuggestedParamsCalls++
	return s.Params, nil
}

func (s *StubNode) SendRawTransaction(ctx context.Context, stx []byte) (string, error) {
	s.SendCalls++
	if s.SendErr != nil {
		return "", s.SendErr
	}
	if s.BroadcastTxID == "" {
		return "STUBTXID", nil
	}
	return s.BroadcastTxID, nil
}

func (s *StubNode) PendingTransactionInformation(ctx context.Context, txid string) (*algo.Confirmation, error) {
	s.PendingCalls++
	if conf, ok := s.Pending[txid]; ok && s.PendingCalls > s.ConfirmAfter {
		return conf, nil
	}
	return &algo.Confirmation{TxID: txid}, nil
}

func (s *StubNode) LastRound(ctx context.Context) (uint64, error) {
	s.StatusCalls++
	return s.Round, nil
}

func (s *StubNode) WaitForRoundAfter(ctx context.Context, round uint64) (uint64, error) {
	s.WaitCalls++
	s.Round = round + 1
	return s.Round, nil
}

func (s *StubNode) AccountInformation(ctx context.Context, address string) (models.Account, error) {
	s.AccountCalls++
	if s.AccountErr != nil {
		return models.Account{}, s.AccountErr
	}
	acct, ok := s.Accounts[address]
	if !ok {
		return models.Account{Address: address}, nil
	}
	return acct, nil
}

func (s *StubNode) AssetInformation(ctx context.Context, assetID uint64) (models.Asset, error) {
	s.AssetCalls++
	if s.AssetErr != nil {
		return models.Asset{}, s.AssetErr
	}
	asset, ok := s.Assets[assetID]
	if !ok {
		return models.Asset{}, fmt.Errorf("asset %d not found", assetID)
	}
	return asset, nil
}

// StubIndexer implements algo.Indexer from fixtures with call counting.
type StubIndexer struct {
	Transactions        map[string]models.Transaction
	AccountTransactions map[string][]models.Transaction

	// LookupErr, when set, fails every LookupTransaction call.
	LookupErr error

	LookupCalls        int
	AccountLookupCalls int
}

// NewStubIndexer returns an empty indexer stub.
func NewStubIndexer() *StubIndexer {
	return &StubIndexer{
		Transactions:        make(map[string]models.Transaction),
		AccountTransactions: make(map[string][]models.Transaction),
	}
}

func (s *StubIndexer) LookupTransaction(ctx context.Context, txid string) (models.Transaction, error) {
	s.LookupCalls++
	if s.LookupErr != nil {
		return models.Transaction{}, s.LookupErr
	}
	txn, ok := s.Transactions[txid]
	if !ok {
		return models.Transaction{}, fmt.Errorf("transaction %s not found", txid)
	}
	return txn, nil
}

func (s *StubIndexer) LookupAccountTransactions(ctx context.Context, address string, limit uint64) ([]models.Transaction, error) {
	s.AccountLookupCalls++
	txns := s.AccountTransactions[address]
	if uint64(len(txns)) > limit {
		txns = txns[:limit]
	}
	return txns, nil
}

// CountingSigner returns a signer that counts invocations and returns a
// fixed dummy blob.
func CountingSigner(calls *int) func(ctx context.Context, txn types.Transaction) ([]byte, error) {
	return func(ctx context.Context, txn types.Transaction) ([]byte, error) {
		*calls++
		return []byte("signed"), nil
	}
}

// NoSleep is a recovery sleep function that returns immediately, keeping
// backoff-heavy tests fast.
func NoSleep(ctx context.Context, d time.Duration) error {
	return nil
}

// TestAddress returns a valid, checksummed Algorand address derived from an
// index, for use as a fixture.
func TestAddress(index int) string {
	var addr types.Address
	addr[0] = byte(index)
	addr[1] = byte(index >> 8)
	return addr.String()
}
