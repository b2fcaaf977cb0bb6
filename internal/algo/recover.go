// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 asaforge Authors

package algo

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/asaforge-algo/asaforge/internal/util"
)

// MaxSafeAssetID is the largest asset identifier that survives a round trip
// through JSON consumers using IEEE-754 doubles (2^53 - 1). Identifiers
// above it are rejected rather than silently truncated.
const MaxSafeAssetID = uint64(1<<53 - 1)

var (
	// ErrAssetIDNotFound means the transaction confirmed but no recovery
	// strategy produced the created asset's ID. Distinct from a transaction
	// failure: the caller should point the user at the explorer.
	ErrAssetIDNotFound = errors.New("created asset ID could not be recovered")

	// ErrUnsafeAssetID means a recovered identifier exceeds MaxSafeAssetID.
	ErrUnsafeAssetID = errors.New("asset ID exceeds safe integer range")
)

// RecoveryOptions tunes the eventual-consistency fallbacks. The defaults
// are empirical, not protocol requirements; tune them to the target
// network's observed indexing lag.
type RecoveryOptions struct {
	IndexerAttempts  int           // bounded retry count for the indexer lookup (default 3)
	IndexerBaseDelay time.Duration // first backoff delay, doubled per attempt (default 1s)
	IndexerTimeout   time.Duration // wall-clock cap per indexer request (default 10s)
	CatchupDelay     time.Duration // pause before indexer/account fallbacks (default 2s)

	// Sleep is injectable for tests; nil means a context-aware time.Sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (o RecoveryOptions) withDefaults() RecoveryOptions {
	if o.IndexerAttempts == 0 {
		o.IndexerAttempts = 3
	}
	if o.IndexerBaseDelay == 0 {
		o.IndexerBaseDelay = time.Second
	}
	if o.IndexerTimeout == 0 {
		o.IndexerTimeout = 10 * time.Second
	}
	if o.CatchupDelay == 0 {
		o.CatchupDelay = 2 * time.Second
	}
	if o.Sleep == nil {
		o.Sleep = sleepCtx
	}
	return o
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// assetIDKeys are the naming variants under which client libraries expose
// the created-asset index.
var assetIDKeys = []string{"asset-index", "assetIndex", "created-asset-index", "createdAssetIndex"}

// An extractor inspects one confirmation payload shape for the created
// asset ID. It reports (id, found, err); err is reserved for values that
// are present but unusable (precision loss).
type extractor func(payload map[string]any) (uint64, bool, error)

// confirmationExtractors is the fixed-order cascade over payload shapes.
// Each strategy runs only if the previous yielded nothing.
var confirmationExtractors = []extractor{
	extractDirect,
	extractTxnEnvelope,
	extractInnerTxns,
	extractStateDelta,
}

// ExtractAssetID runs the payload extractor cascade, first success wins.
// Pure: no network access, deterministic for a given payload.
func ExtractAssetID(payload map[string]any) (uint64, bool, error) {
	if payload == nil {
		return 0, false, nil
	}
	for _, extract := range confirmationExtractors {
		id, ok, err := extract(payload)
		if err != nil {
			return 0, false, err
		}
		if ok {
			return id, true, nil
		}
	}
	return 0, false, nil
}

// extractDirect checks the naming variants at the payload's top level.
func extractDirect(payload map[string]any) (uint64, bool, error) {
	return lookupAssetIDKeys(payload)
}

// extractTxnEnvelope checks the same fields one level down under "txn",
// covering SDKs that wrap the applied fields in a transaction envelope.
func extractTxnEnvelope(payload map[string]any) (uint64, bool, error) {
	txn, ok := payload["txn"].(map[string]any)
	if !ok {
		return 0, false, nil
	}
	return lookupAssetIDKeys(txn)
}

// extractInnerTxns covers creation via an application call: the asset
// create runs as the first inner transaction.
func extractInnerTxns(payload map[string]any) (uint64, bool, error) {
	inner, ok := payload["inner-txns"].([]any)
	if !ok || len(inner) == 0 {
		return 0, false, nil
	}
	first, ok := inner[0].(map[string]any)
	if !ok {
		return 0, false, nil
	}
	return lookupAssetIDKeys(first)
}

// extractStateDelta scans global-state-delta entries for a key named
// asset-id (possibly base64-encoded) holding the ID as a uint or as
// big-endian bytes.
func extractStateDelta(payload map[string]any) (uint64, bool, error) {
	deltas, ok := payload["global-state-delta"].([]any)
	if !ok {
		return 0, false, nil
	}

	for _, entry := range deltas {
		kv, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		key, _ := kv["key"].(string)
		if !isAssetIDKey(key) {
			continue
		}

		value, ok := kv["value"].(map[string]any)
		if !ok {
			continue
		}
		if id, found, err := numericValue(value["uint"]); err != nil || found {
			return id, found, err
		}
		if encoded, ok := value["bytes"].(string); ok && encoded != "" {
			raw, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil || len(raw) == 0 || len(raw) > 8 {
				continue
			}
			var buf [8]byte
			copy(buf[8-len(raw):], raw)
			id := binary.BigEndian.Uint64(buf[:])
			if id == 0 {
				continue
			}
			if id > MaxSafeAssetID {
				return 0, false, fmt.Errorf("%w: %d", ErrUnsafeAssetID, id)
			}
			return id, true, nil
		}
	}
	return 0, false, nil
}

func isAssetIDKey(key string) bool {
	if key == "asset-id" || key == "assetId" {
		return true
	}
	if decoded, err := base64.StdEncoding.DecodeString(key); err == nil {
		s := string(decoded)
		return s == "asset-id" || s == "assetId"
	}
	return false
}

func lookupAssetIDKeys(m map[string]any) (uint64, bool, error) {
	for _, key := range assetIDKeys {
		if id, ok, err := numericValue(m[key]); err != nil || ok {
			return id, ok, err
		}
	}
	return 0, false, nil
}

// numericValue narrows a payload value to an asset ID with the safe-integer
// guard. Zero means "absent": Algorand asset IDs are positive.
func numericValue(v any) (uint64, bool, error) {
	switch n := v.(type) {
	case nil:
		return 0, false, nil
	case uint64:
		return checkedAssetID(n)
	case int:
		if n < 0 {
			return 0, false, nil
		}
		return checkedAssetID(uint64(n))
	case int64:
		if n < 0 {
			return 0, false, nil
		}
		return checkedAssetID(uint64(n))
	case float64:
		if n < 0 || n != math.Trunc(n) {
			return 0, false, nil
		}
		if n > float64(MaxSafeAssetID) {
			return 0, false, fmt.Errorf("%w: %g", ErrUnsafeAssetID, n)
		}
		return checkedAssetID(uint64(n))
	case json.Number:
		id, err := strconv.ParseUint(n.String(), 10, 64)
		if err != nil {
			if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
				return 0, false, fmt.Errorf("%w: %s", ErrUnsafeAssetID, n.String())
			}
			return 0, false, nil
		}
		return checkedAssetID(id)
	default:
		return 0, false, nil
	}
}

func checkedAssetID(id uint64) (uint64, bool, error) {
	if id == 0 {
		return 0, false, nil
	}
	if id > MaxSafeAssetID {
		return 0, false, fmt.Errorf("%w: %d", ErrUnsafeAssetID, id)
	}
	return id, true, nil
}

// RecoverAssetID determines the asset ID created by a confirmed
// transaction. It first sniffs the confirmation payload shapes (no network
// access), then reconciles against the indexer with bounded retry, and
// finally falls back to the creator account's created-asset list, taking
// the highest index as the most recent creation. The last fallback is a
// best-effort guess and can misattribute under concurrent creation by the
// same creator.
func RecoverAssetID(ctx context.Context, conf *Confirmation, node Node, idx Indexer, creator string, network string, opts RecoveryOptions) (uint64, error) {
	if conf == nil {
		return 0, fmt.Errorf("nil confirmation")
	}
	opts = opts.withDefaults()

	// Strategies 1-4: pure payload extraction.
	if id, ok, err := ExtractAssetID(conf.Payload); err != nil {
		return 0, err
	} else if ok {
		util.Debug("asset ID extracted from confirmation payload", "txid", conf.TxID, "asset_id", id)
		return id, nil
	}

	// Strategy 5: indexer reconciliation. The indexer lags the node, so
	// pause before the first attempt and back off between retries.
	if idx != nil {
		if err := opts.Sleep(ctx, opts.CatchupDelay); err != nil {
			return 0, err
		}
		for attempt := 0; attempt < opts.IndexerAttempts; attempt++ {
			if attempt > 0 {
				delay := opts.IndexerBaseDelay << (attempt - 1)
				if err := opts.Sleep(ctx, delay); err != nil {
					return 0, err
				}
			}

			lookupCtx, cancel := context.WithTimeout(ctx, opts.IndexerTimeout)
			txn, err := idx.LookupTransaction(lookupCtx, conf.TxID)
			cancel()
			if err != nil {
				util.Debug("indexer lookup failed", "txid", conf.TxID, "attempt", attempt+1, "err", err)
				continue
			}

			if id, ok, err := checkedAssetID(txn.CreatedAssetIndex); err != nil {
				return 0, err
			} else if ok {
				util.Debug("asset ID recovered via indexer", "txid", conf.TxID, "asset_id", id)
				return id, nil
			}
			// The record exists but carries no created-asset index;
			// retrying will not change that.
			break
		}
	}

	// Strategy 6: creator account scan, highest created index wins.
	if node != nil && creator != "" {
		if err := opts.Sleep(ctx, opts.CatchupDelay); err != nil {
			return 0, err
		}
		acct, err := node.AccountInformation(ctx, creator)
		if err != nil {
			util.Debug("account fallback failed", "creator", creator, "err", err)
		} else {
			var highest uint64
			for _, asset := range acct.CreatedAssets {
				if asset.Index > highest {
					highest = asset.Index
				}
			}
			if id, ok, err := checkedAssetID(highest); err != nil {
				return 0, err
			} else if ok {
				util.Debug("asset ID recovered via creator account scan", "txid", conf.TxID, "asset_id", id)
				return id, nil
			}
		}
	}

	return 0, fmt.Errorf("%w: transaction %s confirmed on %s", ErrAssetIDNotFound, conf.TxID, network)
}
