// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 asaforge Authors

package netconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRegistry_Builtins(t *testing.T) {
	r := NewRegistry()

	for _, key := range []string{"mainnet", "testnet", "betanet"} {
		if !r.Has(key) {
			t.Errorf("Has(%q) = false, want true", key)
		}
		n := r.Get(key)
		if n.Key != key {
			t.Errorf("Get(%q).Key = %q", key, n.Key)
		}
		if n.AlgodURL == "" || n.IndexerURL == "" || n.ExplorerBaseURL == "" {
			t.Errorf("Get(%q) has empty endpoint fields: %+v", key, n)
		}
	}

	if !r.Get("mainnet").IsMainnet {
		t.Error("mainnet.IsMainnet = false")
	}
	if r.Get("testnet").IsMainnet {
		t.Error("testnet.IsMainnet = true")
	}
	if len(r.Keys()) != 3 {
		t.Errorf("Keys() = %v, want 3 entries", r.Keys())
	}
}

func TestRegistry_UnknownKeyFallsBackToTestnet(t *testing.T) {
	r := NewRegistry()

	n := r.Get("nosuchnet")
	if n.Key != DefaultNetworkKey {
		t.Errorf("Get(unknown).Key = %q, want %q", n.Key, DefaultNetworkKey)
	}
	if n.IsMainnet {
		t.Error("unknown key resolved to a mainnet config")
	}
}

func TestLoadRegistry_MissingFileUsesBuiltins(t *testing.T) {
	r, err := LoadRegistry(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}
	if len(r.Keys()) != 3 {
		t.Errorf("Keys() = %v, want builtins only", r.Keys())
	}
}

func TestLoadRegistry_OverridesMergeFieldwise(t *testing.T) {
	path := filepath.Join(t.TempDir(), "networks.yaml")
	content := `
testnet:
  algod_url: "http://localhost:4001"
  algod_token: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
localnet:
  key: "localnet"
  algod_url: "http://localhost:8080"
  explorer_base_url: "http://localhost:9090"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	r, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}

	// Overridden fields replace, untouched fields survive.
	testnet := r.Get("testnet")
	if testnet.AlgodURL != "http://localhost:4001" {
		t.Errorf("testnet.AlgodURL = %q", testnet.AlgodURL)
	}
	if testnet.AlgodToken != "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" {
		t.Errorf("testnet.AlgodToken = %q", testnet.AlgodToken)
	}
	if testnet.IndexerURL != "https://testnet-idx.algonode.cloud" {
		t.Errorf("testnet.IndexerURL = %q, want builtin preserved", testnet.IndexerURL)
	}
	if testnet.ExplorerBaseURL == "" {
		t.Error("testnet.ExplorerBaseURL lost in merge")
	}

	// New entries get the default minimum-balance constant.
	if !r.Has("localnet") {
		t.Fatal("Has(localnet) = false after override")
	}
	local := r.Get("localnet")
	if local.AlgodURL != "http://localhost:8080" {
		t.Errorf("localnet.AlgodURL = %q", local.AlgodURL)
	}
	if local.MinBalanceReserve != 100000 {
		t.Errorf("localnet.MinBalanceReserve = %d, want default", local.MinBalanceReserve)
	}
}

func TestLoadRegistry_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("testnet: [not a mapping"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRegistry(path); err == nil {
		t.Error("LoadRegistry() error = nil for malformed YAML")
	}
}

func TestExplorerURLs(t *testing.T) {
	n := NewRegistry().Get("testnet")

	if got := n.ExplorerTxURL("TX123"); got != "https://testnet.explorer.perawallet.app/tx/TX123" {
		t.Errorf("ExplorerTxURL = %q", got)
	}
	if got := n.ExplorerAssetURL(42); got != "https://testnet.explorer.perawallet.app/asset/42" {
		t.Errorf("ExplorerAssetURL = %q", got)
	}
	if got := n.ExplorerAddressURL("ADDR"); got != "https://testnet.explorer.perawallet.app/address/ADDR" {
		t.Errorf("ExplorerAddressURL = %q", got)
	}
}
