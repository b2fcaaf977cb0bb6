// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 asaforge Authors

// Package netconfig holds the static network registry: endpoints, explorer
// links, and protocol constants per Algorand network. The registry is built
// once (builtins plus an optional YAML override file) and never mutated
// afterwards; callers thread a Network value explicitly through every
// factory and operation call.
package netconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Network describes one Algorand network's endpoints and constants.
type Network struct {
	Key             string `yaml:"key"`
	AlgodURL        string `yaml:"algod_url" description:"Algod REST endpoint"`
	AlgodToken      string `yaml:"algod_token" description:"Algod API token (empty for public nodes)"`
	IndexerURL      string `yaml:"indexer_url" description:"Indexer REST endpoint"`
	IndexerToken    string `yaml:"indexer_token" description:"Indexer API token (empty for public nodes)"`
	ExplorerBaseURL string `yaml:"explorer_base_url" description:"Block explorer base URL"`
	IsMainnet       bool   `yaml:"is_mainnet"`

	// MinBalanceReserve is the per-account minimum balance increase (in
	// microAlgos) incurred by each asset holding slot.
	MinBalanceReserve uint64 `yaml:"min_balance_reserve"`
}

// builtinNetworks is the compiled-in registry. AlgoNode public endpoints do
// not require tokens.
var builtinNetworks = map[string]Network{
	"mainnet": {
		Key:               "mainnet",
		AlgodURL:          "https://mainnet-api.algonode.cloud",
		IndexerURL:        "https://mainnet-idx.algonode.cloud",
		ExplorerBaseURL:   "https://explorer.perawallet.app",
		IsMainnet:         true,
		MinBalanceReserve: 100000,
	},
	"testnet": {
		Key:               "testnet",
		AlgodURL:          "https://testnet-api.algonode.cloud",
		IndexerURL:        "https://testnet-idx.algonode.cloud",
		ExplorerBaseURL:   "https://testnet.explorer.perawallet.app",
		IsMainnet:         false,
		MinBalanceReserve: 100000,
	},
	"betanet": {
		Key:               "betanet",
		AlgodURL:          "https://betanet-api.algonode.cloud",
		IndexerURL:        "https://betanet-idx.algonode.cloud",
		ExplorerBaseURL:   "https://betanet.explorer.perawallet.app",
		IsMainnet:         false,
		MinBalanceReserve: 100000,
	},
}

// DefaultNetworkKey is used when a requested key is not in the registry.
const DefaultNetworkKey = "testnet"

// Registry is an immutable set of networks keyed by network name.
type Registry struct {
	networks map[string]Network
}

// NewRegistry returns a registry containing only the builtin networks.
func NewRegistry() *Registry {
	return &Registry{networks: copyNetworks(builtinNetworks)}
}

// LoadRegistry builds a registry from the builtins overlaid with entries
// from a YAML override file. A missing file is not an error; the builtins
// are returned unchanged. Overrides replace whole fields, not entries:
// an override entry only needs the fields it changes.
func LoadRegistry(path string) (*Registry, error) {
	networks := copyNetworks(builtinNetworks)

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return &Registry{networks: networks}, nil
			}
			return nil, fmt.Errorf("failed to read network config %s: %w", path, err)
		}

		var overrides map[string]Network
		if err := yaml.Unmarshal(data, &overrides); err != nil {
			return nil, fmt.Errorf("failed to parse network config %s: %w", path, err)
		}

		for key, o := range overrides {
			base, ok := networks[key]
			if !ok {
				base = Network{Key: key, MinBalanceReserve: 100000}
			}
			networks[key] = mergeNetwork(base, o)
		}
	}

	return &Registry{networks: networks}, nil
}

// Get returns the network for key, falling back to the default (testnet)
// configuration when the key is unrecognized.
func (r *Registry) Get(key string) Network {
	if n, ok := r.networks[key]; ok {
		return n
	}
	return r.networks[DefaultNetworkKey]
}

// Has reports whether key names a known network.
func (r *Registry) Has(key string) bool {
	_, ok := r.networks[key]
	return ok
}

// Keys returns the registered network keys.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.networks))
	for k := range r.networks {
		keys = append(keys, k)
	}
	return keys
}

// ExplorerTxURL returns the explorer link for a transaction ID.
func (n Network) ExplorerTxURL(txid string) string {
	return fmt.Sprintf("%s/tx/%s", n.ExplorerBaseURL, txid)
}

// ExplorerAssetURL returns the explorer link for an asset ID.
func (n Network) ExplorerAssetURL(assetID uint64) string {
	return fmt.Sprintf("%s/asset/%d", n.ExplorerBaseURL, assetID)
}

// ExplorerAddressURL returns the explorer link for an account address.
func (n Network) ExplorerAddressURL(addr string) string {
	return fmt.Sprintf("%s/address/%s", n.ExplorerBaseURL, addr)
}

func copyNetworks(src map[string]Network) map[string]Network {
	dst := make(map[string]Network, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func mergeNetwork(base, o Network) Network {
	if o.AlgodURL != "" {
		base.AlgodURL = o.AlgodURL
	}
	if o.AlgodToken != "" {
		base.AlgodToken = o.AlgodToken
	}
	if o.IndexerURL != "" {
		base.IndexerURL = o.IndexerURL
	}
	if o.IndexerToken != "" {
		base.IndexerToken = o.IndexerToken
	}
	if o.ExplorerBaseURL != "" {
		base.ExplorerBaseURL = o.ExplorerBaseURL
	}
	if o.IsMainnet {
		base.IsMainnet = true
	}
	if o.MinBalanceReserve != 0 {
		base.MinBalanceReserve = o.MinBalanceReserve
	}
	return base
}
