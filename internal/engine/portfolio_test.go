// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 asaforge Authors

package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"

	"github.com/asaforge-algo/asaforge/internal/netconfig"
	"github.com/asaforge-algo/asaforge/internal/testutil"
)

func TestGetAccountSummary(t *testing.T) {
	owner := testutil.TestAddress(1)
	node := testutil.NewStubNode()
	node.Assets[7] = models.Asset{
		Index: 7,
		Params: models.AssetParams{Name: "Forge Token", UnitName: "FORGE", Decimals: 6, Total: 1000000},
	}
	node.Accounts[owner] = models.Account{
		Address:    owner,
		Amount:     5000000,
		MinBalance: 200000,
		Assets: []models.AssetHolding{
			{AssetId: 7, Amount: 1500, IsFrozen: true},
			{AssetId: 8, Amount: 10}, // no params on the node; name stays empty
		},
		CreatedAssets: []models.Asset{
			{Index: 7, Params: models.AssetParams{Name: "Forge Token", UnitName: "FORGE", Creator: owner}},
		},
	}

	registry := netconfig.NewRegistry()
	eng, _ := NewEngine(registry.Get("testnet"), WithNode(node))

	summary, err := eng.GetAccountSummary(context.Background(), owner)
	if err != nil {
		t.Fatalf("GetAccountSummary() error = %v", err)
	}

	if summary.AlgoBalance != 5000000 {
		t.Errorf("AlgoBalance = %d, want 5000000", summary.AlgoBalance)
	}
	if summary.MinBalance != 200000 {
		t.Errorf("MinBalance = %d, want 200000", summary.MinBalance)
	}
	if len(summary.Holdings) != 2 {
		t.Fatalf("Holdings = %d entries, want 2", len(summary.Holdings))
	}
	if summary.Holdings[0].Name != "Forge Token" || summary.Holdings[0].UnitName != "FORGE" {
		t.Errorf("first holding = %+v, want name fields filled", summary.Holdings[0])
	}
	if !summary.Holdings[0].IsFrozen {
		t.Error("first holding IsFrozen = false, want true")
	}
	if summary.Holdings[1].Name != "" {
		t.Errorf("second holding name = %q, want empty when lookup fails", summary.Holdings[1].Name)
	}
	if len(summary.CreatedAssets) != 1 || summary.CreatedAssets[0].AssetID != 7 {
		t.Errorf("CreatedAssets = %+v, want one entry for asset 7", summary.CreatedAssets)
	}
}

func TestGetAssetSummary(t *testing.T) {
	creator := testutil.TestAddress(1)
	node := testutil.NewStubNode()
	node.Assets[42] = models.Asset{
		Index: 42,
		Params: models.AssetParams{
			Name:     "Forge Token",
			UnitName: "FORGE",
			Decimals: 2,
			Total:    10000,
			Creator:  creator,
			Manager:  creator,
			Url:      "https://s.example/meta.json",
		},
	}

	registry := netconfig.NewRegistry()
	eng, _ := NewEngine(registry.Get("testnet"), WithNode(node))

	summary, err := eng.GetAssetSummary(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetAssetSummary() error = %v", err)
	}
	if summary.AssetID != 42 || summary.Name != "Forge Token" || summary.Total != 10000 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.URL != "https://s.example/meta.json" {
		t.Errorf("URL = %q", summary.URL)
	}
	if summary.ExplorerURL != "https://testnet.explorer.perawallet.app/asset/42" {
		t.Errorf("ExplorerURL = %q", summary.ExplorerURL)
	}

	if _, err := eng.GetAssetSummary(context.Background(), 0); !errors.Is(err, ErrInvalidAssetID) {
		t.Errorf("GetAssetSummary(0) error = %v, want ErrInvalidAssetID", err)
	}
}

func TestGetRecentTransactions(t *testing.T) {
	owner := testutil.TestAddress(1)
	other := testutil.TestAddress(2)
	idx := testutil.NewStubIndexer()
	idx.AccountTransactions[owner] = []models.Transaction{
		{
			Id:                 "PAY1",
			Type:               "pay",
			Sender:             owner,
			Fee:                1000,
			ConfirmedRound:     900,
			PaymentTransaction: models.TransactionPayment{Receiver: other, Amount: 250000},
		},
		{
			Id:                       "AXFER1",
			Type:                     "axfer",
			Sender:                   other,
			ConfirmedRound:           890,
			AssetTransferTransaction: models.TransactionAssetTransfer{Receiver: owner, Amount: 12, AssetId: 7},
		},
		{
			Id:                "ACFG1",
			Type:              "acfg",
			Sender:            owner,
			ConfirmedRound:    880,
			CreatedAssetIndex: 7,
		},
	}

	registry := netconfig.NewRegistry()
	eng, _ := NewEngine(registry.Get("testnet"), WithIndexer(idx))

	txns, err := eng.GetRecentTransactions(context.Background(), owner, 10)
	if err != nil {
		t.Fatalf("GetRecentTransactions() error = %v", err)
	}
	if len(txns) != 3 {
		t.Fatalf("got %d transactions, want 3", len(txns))
	}
	if txns[0].Type != "pay" || txns[0].Amount != 250000 || txns[0].Receiver != other {
		t.Errorf("pay row = %+v", txns[0])
	}
	if txns[1].Type != "axfer" || txns[1].AssetID != 7 || txns[1].Amount != 12 {
		t.Errorf("axfer row = %+v", txns[1])
	}
	if txns[2].Type != "acfg" || txns[2].AssetID != 7 {
		t.Errorf("acfg row = %+v", txns[2])
	}

	if _, err := eng.GetRecentTransactions(context.Background(), owner, 0); err != nil {
		t.Errorf("limit 0 should default, got error %v", err)
	}
	if idx.AccountLookupCalls != 2 {
		t.Errorf("indexer lookups = %d, want 2", idx.AccountLookupCalls)
	}
}
