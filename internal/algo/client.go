// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 asaforge Authors

// Package algo wraps the Algorand SDK clients behind narrow interfaces and
// implements the confirmation wait loop and created-asset-ID recovery used
// by the asset lifecycle engine.
package algo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/algod"
	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/algorand/go-algorand-sdk/v2/client/v2/indexer"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/asaforge-algo/asaforge/internal/netconfig"
)

// Node is the subset of the algod REST surface the engine needs. The
// concrete implementation wraps *algod.Client; tests substitute stubs.
type Node interface {
	SuggestedParams(ctx context.Context) (types.SuggestedParams, error)
	SendRawTransaction(ctx context.Context, stx []byte) (string, error)
	PendingTransactionInformation(ctx context.Context, txid string) (*Confirmation, error)
	LastRound(ctx context.Context) (uint64, error)
	WaitForRoundAfter(ctx context.Context, round uint64) (uint64, error)
	AccountInformation(ctx context.Context, address string) (models.Account, error)
	AssetInformation(ctx context.Context, assetID uint64) (models.Asset, error)
}

// Indexer is the subset of the indexer REST surface the engine needs.
type Indexer interface {
	LookupTransaction(ctx context.Context, txid string) (models.Transaction, error)
	LookupAccountTransactions(ctx context.Context, address string, limit uint64) ([]models.Transaction, error)
}

// MakeNode returns a Node bound to the network's algod endpoint.
func MakeNode(network netconfig.Network) (Node, error) {
	if network.AlgodURL == "" {
		return nil, fmt.Errorf("algod not configured for %s", network.Key)
	}
	client, err := algod.MakeClient(network.AlgodURL, network.AlgodToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create algod client for %s: %w", network.Key, err)
	}
	return &nodeClient{client: client}, nil
}

// MakeIndexer returns an Indexer bound to the network's indexer endpoint.
func MakeIndexer(network netconfig.Network) (Indexer, error) {
	if network.IndexerURL == "" {
		return nil, fmt.Errorf("indexer not configured for %s", network.Key)
	}
	client, err := indexer.MakeClient(network.IndexerURL, network.IndexerToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexer client for %s: %w", network.Key, err)
	}
	return &indexerClient{client: client}, nil
}

// WrapAlgod adapts an existing *algod.Client to the Node interface.
func WrapAlgod(client *algod.Client) Node {
	return &nodeClient{client: client}
}

// WrapIndexer adapts an existing *indexer.Client to the Indexer interface.
func WrapIndexer(client *indexer.Client) Indexer {
	return &indexerClient{client: client}
}

type nodeClient struct {
	client *algod.Client
}

func (n *nodeClient) SuggestedParams(ctx context.Context) (types.SuggestedParams, error) {
	sp, err := n.client.SuggestedParams().Do(ctx)
	if err != nil {
		return types.SuggestedParams{}, fmt.Errorf("failed to get suggested params: %w", err)
	}
	return sp, nil
}

func (n *nodeClient) SendRawTransaction(ctx context.Context, stx []byte) (string, error) {
	txid, err := n.client.SendRawTransaction(stx).Do(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to submit transaction: %w", err)
	}
	return txid, nil
}

func (n *nodeClient) PendingTransactionInformation(ctx context.Context, txid string) (*Confirmation, error) {
	info, _, err := n.client.PendingTransactionInformation(txid).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending transaction info: %w", err)
	}
	return confirmationFromPending(txid, info), nil
}

func (n *nodeClient) LastRound(ctx context.Context) (uint64, error) {
	status, err := n.client.Status().Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get node status: %w", err)
	}
	return status.LastRound, nil
}

func (n *nodeClient) WaitForRoundAfter(ctx context.Context, round uint64) (uint64, error) {
	status, err := n.client.StatusAfterBlock(round).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to wait for round %d: %w", round+1, err)
	}
	return status.LastRound, nil
}

func (n *nodeClient) AccountInformation(ctx context.Context, address string) (models.Account, error) {
	acct, err := n.client.AccountInformation(address).Do(ctx)
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to get account info for %s: %w", address, err)
	}
	return acct, nil
}

func (n *nodeClient) AssetInformation(ctx context.Context, assetID uint64) (models.Asset, error) {
	asset, err := n.client.GetAssetByID(assetID).Do(ctx)
	if err != nil {
		return models.Asset{}, fmt.Errorf("failed to get asset %d: %w", assetID, err)
	}
	return asset, nil
}

type indexerClient struct {
	client *indexer.Client
}

func (i *indexerClient) LookupTransaction(ctx context.Context, txid string) (models.Transaction, error) {
	resp, err := i.client.LookupTransaction(txid).Do(ctx)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("indexer lookup for %s failed: %w", txid, err)
	}
	return resp.Transaction, nil
}

func (i *indexerClient) LookupAccountTransactions(ctx context.Context, address string, limit uint64) ([]models.Transaction, error) {
	resp, err := i.client.LookupAccountTransactions(address).Limit(limit).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("indexer account transactions for %s failed: %w", address, err)
	}
	return resp.Transactions, nil
}

// ConvertTokenAmountToBaseUnits converts a decimal token amount string to
// base units using exact string arithmetic. "1.5" with 6 decimals becomes
// 1500000; no floating point is involved, so high decimal counts do not
// accumulate rounding error.
func ConvertTokenAmountToBaseUnits(tokenAmount string, decimals uint64) (uint64, error) {
	if tokenAmount == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(tokenAmount, "-") {
		return 0, fmt.Errorf("amount cannot be negative")
	}

	parts := strings.Split(tokenAmount, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("invalid amount format: multiple decimal points")
	}

	integerPart := parts[0]
	fractionalPart := ""
	if len(parts) == 2 {
		fractionalPart = parts[1]
	}

	// Handle empty integer part like ".5" -> "0.5"
	if integerPart == "" {
		integerPart = "0"
	}

	if uint64(len(fractionalPart)) > decimals {
		return 0, fmt.Errorf("amount has too many decimal places (max %d)", decimals)
	}

	// Pad fractional part with zeros and concatenate.
	// e.g., "1.5" (6 dec) -> "1" + "500000" -> "1500000"
	padding := int(decimals) - len(fractionalPart)
	baseUnitsStr := integerPart + fractionalPart + strings.Repeat("0", padding)

	baseUnitsStr = strings.TrimLeft(baseUnitsStr, "0")
	if baseUnitsStr == "" {
		baseUnitsStr = "0"
	}

	baseUnits, err := strconv.ParseUint(baseUnitsStr, 10, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return 0, fmt.Errorf("amount too large (exceeds uint64 capacity)")
		}
		return 0, fmt.Errorf("invalid amount format: %s", tokenAmount)
	}

	return baseUnits, nil
}

// ComputeTotalSupply scales a base supply by 10^decimals using exact integer
// multiplication, failing on overflow rather than truncating.
func ComputeTotalSupply(baseSupply uint64, decimals uint32) (uint64, error) {
	total := baseSupply
	for i := uint32(0); i < decimals; i++ {
		next := total * 10
		if total != 0 && next/10 != total {
			return 0, fmt.Errorf("total supply %d with %d decimals exceeds uint64 capacity", baseSupply, decimals)
		}
		total = next
	}
	return total, nil
}
