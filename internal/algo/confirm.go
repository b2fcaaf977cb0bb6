// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 asaforge Authors

package algo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"

	"github.com/asaforge-algo/asaforge/internal/util"
)

// Confirmation is the outcome of a confirmed transaction as reported by the
// node. Payload carries the confirmation fields in their wire shape; wallet
// bridges and SDK versions disagree about where the created-asset index
// lands, so recovery sniffs the payload rather than trusting one field.
type Confirmation struct {
	TxID           string
	ConfirmedRound uint64
	PoolError      string
	Payload        map[string]any
}

// ConfirmationTimeoutError reports a confirmation wait that exhausted its
// round budget. The transaction may still confirm later; the caller can use
// TxID and Network to build an explorer link for manual inspection.
type ConfirmationTimeoutError struct {
	TxID      string
	Network   string
	MaxRounds uint64
}

func (e *ConfirmationTimeoutError) Error() string {
	return fmt.Sprintf("transaction %s not confirmed after %d rounds on %s", e.TxID, e.MaxRounds, e.Network)
}

// ParseConfirmation builds a Confirmation from a raw JSON confirmation
// payload, e.g. one handed back by a wallet bridge. Numbers are kept as
// json.Number so 64-bit identifiers survive until the checked narrowing in
// recovery.
func ParseConfirmation(txid string, raw []byte) (*Confirmation, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse confirmation payload: %w", err)
	}

	conf := &Confirmation{TxID: txid, Payload: payload}
	if round, ok, err := numericValue(payload["confirmed-round"]); err == nil && ok {
		conf.ConfirmedRound = round
	}
	if poolErr, ok := payload["pool-error"].(string); ok {
		conf.PoolError = poolErr
	}
	return conf, nil
}

// confirmationFromPending converts the typed algod response into a
// Confirmation, projecting the applied fields into their REST wire names so
// the recovery extractors see one canonical shape.
func confirmationFromPending(txid string, info models.PendingTransactionInfoResponse) *Confirmation {
	payload := make(map[string]any)
	if info.AssetIndex != 0 {
		payload["asset-index"] = info.AssetIndex
	}
	if info.ApplicationIndex != 0 {
		payload["application-index"] = info.ApplicationIndex
	}
	if len(info.InnerTxns) > 0 {
		inner := make([]any, 0, len(info.InnerTxns))
		for _, itxn := range info.InnerTxns {
			entry := make(map[string]any)
			if itxn.AssetIndex != 0 {
				entry["asset-index"] = itxn.AssetIndex
			}
			inner = append(inner, entry)
		}
		payload["inner-txns"] = inner
	}
	if len(info.GlobalStateDelta) > 0 {
		deltas := make([]any, 0, len(info.GlobalStateDelta))
		for _, kv := range info.GlobalStateDelta {
			deltas = append(deltas, map[string]any{
				"key": kv.Key,
				"value": map[string]any{
					"uint":  kv.Value.Uint,
					"bytes": kv.Value.Bytes,
				},
			})
		}
		payload["global-state-delta"] = deltas
	}

	return &Confirmation{
		TxID:           txid,
		ConfirmedRound: info.ConfirmedRound,
		PoolError:      info.PoolError,
		Payload:        payload,
	}
}

// WaitForConfirmation polls the node until txid appears in a confirmed
// round or maxRounds rounds elapse past the round observed at entry. The
// budget is counted in rounds, not wall-clock time, since block production
// rate varies per network. A pool error aborts immediately; a timeout
// returns ConfirmationTimeoutError without retrying.
func WaitForConfirmation(ctx context.Context, node Node, txid string, maxRounds uint64, network string) (*Confirmation, error) {
	if maxRounds == 0 {
		return nil, fmt.Errorf("maxRounds must be positive")
	}
	if txid == "" {
		return nil, fmt.Errorf("empty transaction ID")
	}

	startRound, err := node.LastRound(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read current round: %w", err)
	}

	currentRound := startRound
	for currentRound < startRound+maxRounds {
		conf, err := node.PendingTransactionInformation(ctx, txid)
		if err != nil {
			return nil, fmt.Errorf("failed to check transaction %s: %w", txid, err)
		}

		if conf.ConfirmedRound > 0 {
			util.Debug("transaction confirmed", "txid", txid, "round", conf.ConfirmedRound, "network", network)
			return conf, nil
		}
		if conf.PoolError != "" {
			return nil, fmt.Errorf("transaction %s rejected: %s", txid, conf.PoolError)
		}

		currentRound, err = node.WaitForRoundAfter(ctx, currentRound)
		if err != nil {
			return nil, fmt.Errorf("failed to wait for next round: %w", err)
		}
	}

	return nil, &ConfirmationTimeoutError{TxID: txid, Network: network, MaxRounds: maxRounds}
}
