// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 asaforge Authors

package engine

// Read-model aggregators: compose account, asset and transaction reads
// into display-oriented summaries for the dashboard layer. Thin by design;
// no caching, every call reads fresh state.

import (
	"context"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
)

// GetAccountSummary aggregates an account's balance, holdings and created
// assets. Holding names come from per-asset lookups; a failed lookup leaves
// the name fields empty rather than failing the whole summary.
func (e *Engine) GetAccountSummary(ctx context.Context, address string) (*AccountSummary, error) {
	if e.Node == nil {
		return nil, ErrNoNode
	}
	if err := validateAddress(address); err != nil {
		return nil, err
	}

	acct, err := e.Node.AccountInformation(ctx, address)
	if err != nil {
		return nil, err
	}

	summary := &AccountSummary{
		Address:     address,
		AlgoBalance: acct.Amount,
		MinBalance:  acct.MinBalance,
		ExplorerURL: e.Network.ExplorerAddressURL(address),
	}

	for _, holding := range acct.Assets {
		h := AssetHoldingSummary{
			AssetID:  holding.AssetId,
			Amount:   holding.Amount,
			IsFrozen: holding.IsFrozen,
		}
		if asset, err := e.Node.AssetInformation(ctx, holding.AssetId); err == nil {
			h.Name = asset.Params.Name
			h.UnitName = asset.Params.UnitName
			h.Decimals = asset.Params.Decimals
		}
		summary.Holdings = append(summary.Holdings, h)
	}

	for _, created := range acct.CreatedAssets {
		summary.CreatedAssets = append(summary.CreatedAssets, e.assetSummaryFromModel(created))
	}

	return summary, nil
}

// GetAssetSummary returns a display view of one asset's parameters.
func (e *Engine) GetAssetSummary(ctx context.Context, assetID uint64) (*AssetSummary, error) {
	if e.Node == nil {
		return nil, ErrNoNode
	}
	asset, err := e.assetInfo(ctx, assetID)
	if err != nil {
		return nil, err
	}
	summary := e.assetSummaryFromModel(asset)
	return &summary, nil
}

// GetRecentTransactions returns the account's latest transactions from the
// indexer, newest first. The indexer is eventually consistent; very recent
// transactions may be missing.
func (e *Engine) GetRecentTransactions(ctx context.Context, address string, limit uint64) ([]TransactionSummary, error) {
	if e.Indexer == nil {
		return nil, fmt.Errorf("indexer client not configured")
	}
	if err := validateAddress(address); err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = 25
	}

	txns, err := e.Indexer.LookupAccountTransactions(ctx, address, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]TransactionSummary, 0, len(txns))
	for _, txn := range txns {
		s := TransactionSummary{
			TxID:           txn.Id,
			Type:           txn.Type,
			Sender:         txn.Sender,
			Fee:            txn.Fee,
			ConfirmedRound: txn.ConfirmedRound,
			RoundTime:      txn.RoundTime,
			ExplorerURL:    e.Network.ExplorerTxURL(txn.Id),
		}
		switch txn.Type {
		case "pay":
			s.Receiver = txn.PaymentTransaction.Receiver
			s.Amount = txn.PaymentTransaction.Amount
		case "axfer":
			s.Receiver = txn.AssetTransferTransaction.Receiver
			s.Amount = txn.AssetTransferTransaction.Amount
			s.AssetID = txn.AssetTransferTransaction.AssetId
		case "acfg":
			s.AssetID = txn.CreatedAssetIndex
		case "afrz":
			s.AssetID = txn.AssetFreezeTransaction.AssetId
			s.Receiver = txn.AssetFreezeTransaction.Address
		}
		summaries = append(summaries, s)
	}

	return summaries, nil
}

func (e *Engine) assetSummaryFromModel(asset models.Asset) AssetSummary {
	return AssetSummary{
		AssetID:       asset.Index,
		Name:          asset.Params.Name,
		UnitName:      asset.Params.UnitName,
		Decimals:      asset.Params.Decimals,
		Total:         asset.Params.Total,
		Creator:       asset.Params.Creator,
		Manager:       asset.Params.Manager,
		Reserve:       asset.Params.Reserve,
		Freeze:        asset.Params.Freeze,
		Clawback:      asset.Params.Clawback,
		DefaultFrozen: asset.Params.DefaultFrozen,
		URL:           asset.Params.Url,
		ExplorerURL:   e.Network.ExplorerAssetURL(asset.Index),
	}
}
