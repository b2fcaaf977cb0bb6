// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 asaforge Authors

// Package engine implements the asset lifecycle operations: create, opt-in,
// mint, burn, transfer, freeze and unfreeze. Every operation follows the
// same shape: build the unsigned transaction from fresh network params,
// check authorization against current on-chain asset roles, delegate
// signing to the injected signer, broadcast, and wait for confirmation
// within a round budget. Only create runs the asset-ID recovery cascade
// afterwards.
//
// The engine holds no mutable shared state and does not serialize
// concurrent calls; callers are responsible for per-asset serialization.
package engine

import (
	"context"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/asaforge-algo/asaforge/internal/algo"
	"github.com/asaforge-algo/asaforge/internal/metadata"
	"github.com/asaforge-algo/asaforge/internal/netconfig"
)

// Round budgets per operation. Opt-in is a cheap zero-amount transfer and
// gets a tighter budget.
const (
	DefaultRoundBudget = 20
	OptInRoundBudget   = 10
)

// Signer signs one unsigned transaction and returns the encoded signed
// bytes. Supplied by the caller; the engine never holds private keys and
// treats the returned bytes as opaque.
type Signer func(ctx context.Context, txn types.Transaction) ([]byte, error)

// Engine executes asset lifecycle operations against one network.
type Engine struct {
	Network  netconfig.Network
	Node     algo.Node
	Indexer  algo.Indexer
	Signer   Signer
	Uploader metadata.Uploader
	Recovery algo.RecoveryOptions
}

// EngineOption is a functional option for configuring the Engine
type EngineOption func(*Engine) error

// NewEngine creates an Engine bound to the given network configuration.
func NewEngine(network netconfig.Network, opts ...EngineOption) (*Engine, error) {
	e := &Engine{Network: network}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// WithNode sets the algod client used for all network reads and broadcasts
func WithNode(node algo.Node) EngineOption {
	return func(e *Engine) error {
		e.Node = node
		return nil
	}
}

// WithIndexer sets the indexer client used by recovery and read models
func WithIndexer(idx algo.Indexer) EngineOption {
	return func(e *Engine) error {
		e.Indexer = idx
		return nil
	}
}

// WithSigner sets the external transaction signer
func WithSigner(signer Signer) EngineOption {
	return func(e *Engine) error {
		e.Signer = signer
		return nil
	}
}

// WithUploader sets the metadata storage helper
func WithUploader(uploader metadata.Uploader) EngineOption {
	return func(e *Engine) error {
		e.Uploader = uploader
		return nil
	}
}

// WithRecoveryOptions overrides the recovery retry/backoff tuning
func WithRecoveryOptions(opts algo.RecoveryOptions) EngineOption {
	return func(e *Engine) error {
		e.Recovery = opts
		return nil
	}
}

// assetInfo fetches current on-chain asset parameters. Always a fresh read:
// authorization checks must never run against stale role addresses.
func (e *Engine) assetInfo(ctx context.Context, assetID uint64) (models.Asset, error) {
	if assetID == 0 {
		return models.Asset{}, fmt.Errorf("%w: 0", ErrInvalidAssetID)
	}
	return e.Node.AssetInformation(ctx, assetID)
}

// signAndSubmit runs the Sign -> Broadcast -> Confirm tail shared by every
// operation.
func (e *Engine) signAndSubmit(ctx context.Context, txn types.Transaction, maxRounds uint64) (*TxnResult, *algo.Confirmation, error) {
	stx, err := e.Signer(ctx, txn)
	if err != nil {
		return nil, nil, fmt.Errorf("signing failed: %w", err)
	}

	txid, err := e.Node.SendRawTransaction(ctx, stx)
	if err != nil {
		return nil, nil, err
	}

	conf, err := algo.WaitForConfirmation(ctx, e.Node, txid, maxRounds, e.Network.Key)
	if err != nil {
		return nil, nil, err
	}

	result := &TxnResult{
		TxID:           txid,
		ConfirmedRound: conf.ConfirmedRound,
		ExplorerURL:    e.Network.ExplorerTxURL(txid),
	}
	return result, conf, nil
}

func validateAddress(addr string) error {
	if _, err := types.DecodeAddress(addr); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
	}
	return nil
}

func (e *Engine) requireNodeAndSigner() error {
	if e.Node == nil {
		return ErrNoNode
	}
	if e.Signer == nil {
		return ErrNoSigner
	}
	return nil
}
