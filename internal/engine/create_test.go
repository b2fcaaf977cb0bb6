// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 asaforge Authors

package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/asaforge-algo/asaforge/internal/algo"
	"github.com/asaforge-algo/asaforge/internal/metadata"
	"github.com/asaforge-algo/asaforge/internal/netconfig"
	"github.com/asaforge-algo/asaforge/internal/testutil"
)

func newCreateEngine(t *testing.T, opts ...EngineOption) (*Engine, *testutil.StubNode) {
	t.Helper()

	node := testutil.NewStubNode()
	registry := netconfig.NewRegistry()
	all := append([]EngineOption{
		WithNode(node),
		WithRecoveryOptions(algo.RecoveryOptions{Sleep: testutil.NoSleep}),
	}, opts...)
	eng, err := NewEngine(registry.Get("testnet"), all...)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return eng, node
}

func TestCreateAsset_RecoversIDFromPayload(t *testing.T) {
	signerCalls := 0
	eng, node := newCreateEngine(t, WithSigner(testutil.CountingSigner(&signerCalls)))
	node.Pending["STUBTXID"] = &algo.Confirmation{
		TxID:           "STUBTXID",
		ConfirmedRound: 1005,
		Payload:        map[string]any{"asset-index": uint64(9999)},
	}

	var steps []string
	result, err := eng.CreateAsset(context.Background(), CreateAssetParams{
		Creator:    testutil.TestAddress(1),
		Name:       "Forge Token",
		UnitName:   "FORGE",
		BaseSupply: 1000000,
		Decimals:   6,
		OnStep: func(step Step, status StepStatus, detail string) {
			steps = append(steps, fmt.Sprintf("%s:%s", step, status))
		},
	})
	if err != nil {
		t.Fatalf("CreateAsset() error = %v", err)
	}

	if result.AssetID != 9999 {
		t.Errorf("AssetID = %d, want 9999", result.AssetID)
	}
	if !result.AssetIDRecovered {
		t.Error("AssetIDRecovered = false, want true")
	}
	if result.TxID != "STUBTXID" {
		t.Errorf("TxID = %q, want STUBTXID", result.TxID)
	}
	if result.ConfirmedRound != 1005 {
		t.Errorf("ConfirmedRound = %d, want 1005", result.ConfirmedRound)
	}
	if signerCalls != 1 {
		t.Errorf("signer invoked %d times, want 1", signerCalls)
	}
	if node.AccountCalls != 0 {
		t.Errorf("account fallback used despite payload hit: %d calls", node.AccountCalls)
	}

	// Phases must complete in order: build, sign, broadcast, confirm, recover.
	var completed []string
	for _, s := range steps {
		if strings.HasSuffix(s, ":"+string(StepCompleted)) {
			completed = append(completed, strings.TrimSuffix(s, ":"+string(StepCompleted)))
		}
	}
	want := []string{string(StepBuild), string(StepSign), string(StepBroadcast), string(StepConfirm), string(StepRecover)}
	if len(completed) != len(want) {
		t.Fatalf("completed steps = %v, want %v", completed, want)
	}
	for i := range want {
		if completed[i] != want[i] {
			t.Errorf("step %d = %q, want %q", i, completed[i], want[i])
		}
	}
}

func TestCreateAsset_PartialSuccessWhenIDUnrecoverable(t *testing.T) {
	signerCalls := 0
	eng, node := newCreateEngine(t, WithSigner(testutil.CountingSigner(&signerCalls)))
	// Confirmation carries no asset ID in any shape, no indexer is wired,
	// and the creator account lists no created assets.
	node.Pending["STUBTXID"] = &algo.Confirmation{
		TxID:           "STUBTXID",
		ConfirmedRound: 1003,
		Payload:        map[string]any{"confirmed-round": uint64(1003)},
	}

	result, err := eng.CreateAsset(context.Background(), CreateAssetParams{
		Creator:    testutil.TestAddress(1),
		Name:       "Forge Token",
		UnitName:   "FORGE",
		BaseSupply: 1000,
		Decimals:   0,
	})
	if err != nil {
		t.Fatalf("CreateAsset() error = %v, want nil (partial success)", err)
	}

	if result.AssetIDRecovered {
		t.Error("AssetIDRecovered = true, want false")
	}
	if result.AssetID != 0 {
		t.Errorf("AssetID = %d, want 0", result.AssetID)
	}
	if result.TxID != "STUBTXID" {
		t.Errorf("TxID = %q, want STUBTXID", result.TxID)
	}
	if !strings.Contains(result.ExplorerURL, "STUBTXID") {
		t.Errorf("ExplorerURL = %q, want tx link for manual verification", result.ExplorerURL)
	}
}

func TestCreateAsset_LongMetadataURLFallsBack(t *testing.T) {
	longURL := "https://storage.example.com/" + strings.Repeat("x", 120)
	uploader := metadata.UploadFunc(func(ctx context.Context, payload []byte, bucket, name string) (string, error) {
		return longURL, nil
	})

	var signed types.Transaction
	signer := func(ctx context.Context, txn types.Transaction) ([]byte, error) {
		signed = txn
		return []byte("signed"), nil
	}

	eng, node := newCreateEngine(t, WithSigner(signer), WithUploader(uploader))
	node.Pending["STUBTXID"] = &algo.Confirmation{
		TxID:           "STUBTXID",
		ConfirmedRound: 1002,
		Payload:        map[string]any{"asset-index": uint64(12)},
	}

	result, err := eng.CreateAsset(context.Background(), CreateAssetParams{
		Creator:    testutil.TestAddress(1),
		Name:       "Forge Token",
		UnitName:   "FORGE",
		BaseSupply: 100,
		Decimals:   2,
		Metadata:   &metadata.Document{Name: "Forge Token", Decimals: 2},
	})
	if err != nil {
		t.Fatalf("CreateAsset() error = %v", err)
	}

	if signed.AssetParams.URL != metadata.FallbackURL {
		t.Errorf("signed transaction URL = %q, want fallback %q", signed.AssetParams.URL, metadata.FallbackURL)
	}
	if result.AssetURL != metadata.FallbackURL {
		t.Errorf("result.AssetURL = %q, want fallback %q", result.AssetURL, metadata.FallbackURL)
	}
}

func TestCreateAsset_UploadFailureAbortsBeforeBroadcast(t *testing.T) {
	uploader := metadata.UploadFunc(func(ctx context.Context, payload []byte, bucket, name string) (string, error) {
		return "", errors.New("bucket unavailable")
	})

	signerCalls := 0
	eng, node := newCreateEngine(t, WithSigner(testutil.CountingSigner(&signerCalls)), WithUploader(uploader))

	_, err := eng.CreateAsset(context.Background(), CreateAssetParams{
		Creator:    testutil.TestAddress(1),
		Name:       "Forge Token",
		UnitName:   "FORGE",
		BaseSupply: 100,
		Decimals:   2,
		Metadata:   &metadata.Document{Name: "Forge Token", Decimals: 2},
	})
	if !errors.Is(err, metadata.ErrUploadFailed) {
		t.Fatalf("CreateAsset() error = %v, want ErrUploadFailed", err)
	}
	if signerCalls != 0 {
		t.Errorf("signer invoked %d times after failed upload, want 0", signerCalls)
	}
	if node.SendCalls != 0 {
		t.Errorf("broadcast attempted %d times after failed upload, want 0", node.SendCalls)
	}
}

func TestCreateAsset_SupplyOverflowRejectedBeforeNetwork(t *testing.T) {
	signerCalls := 0
	eng, node := newCreateEngine(t, WithSigner(testutil.CountingSigner(&signerCalls)))

	_, err := eng.CreateAsset(context.Background(), CreateAssetParams{
		Creator:    testutil.TestAddress(1),
		Name:       "Forge Token",
		UnitName:   "FORGE",
		BaseSupply: 1000000,
		Decimals:   19,
	})
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("CreateAsset() error = %v, want ErrInvalidAmount", err)
	}
	if node.SuggestedParamsCalls != 0 {
		t.Errorf("network touched %d times for invalid supply, want 0", node.SuggestedParamsCalls)
	}
}

func TestCreateAsset_InvalidInputs(t *testing.T) {
	signerCalls := 0
	eng, _ := newCreateEngine(t, WithSigner(testutil.CountingSigner(&signerCalls)))

	tests := []struct {
		name    string
		params  CreateAssetParams
		wantErr error
	}{
		{
			name:    "bad creator address",
			params:  CreateAssetParams{Creator: "nope", BaseSupply: 1},
			wantErr: ErrInvalidAddress,
		},
		{
			name:    "zero supply",
			params:  CreateAssetParams{Creator: testutil.TestAddress(1)},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "decimals out of range",
			params:  CreateAssetParams{Creator: testutil.TestAddress(1), BaseSupply: 1, Decimals: 20},
			wantErr: ErrInvalidAmount,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.CreateAsset(context.Background(), tt.params)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateAsset() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if signerCalls != 0 {
		t.Errorf("signer invoked %d times for invalid input, want 0", signerCalls)
	}
}
