// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 asaforge Authors

package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/transaction"

	"github.com/asaforge-algo/asaforge/internal/algo"
	"github.com/asaforge-algo/asaforge/internal/metadata"
	"github.com/asaforge-algo/asaforge/internal/util"
)

// CreateAssetParams contains parameters for creating a new ASA.
// Role addresses left empty default to the creator.
type CreateAssetParams struct {
	Creator       string
	Name          string
	UnitName      string
	BaseSupply    uint64 // whole tokens, scaled by 10^Decimals before broadcast
	Decimals      uint32
	DefaultFrozen bool
	Manager       string
	Reserve       string
	Freeze        string
	Clawback      string
	Note          string

	// Metadata, when set, is published via the engine's Uploader before
	// the transaction is built; the resulting URL lands in the asset's URL
	// field. Upload failure aborts creation before broadcast.
	Metadata         *metadata.Document
	MetadataBucket   string
	MetadataNameHint string

	// OnStep receives progress updates at each phase transition.
	OnStep StepFunc
}

// CreateAsset creates a new asset and recovers its on-chain ID.
//
// When the transaction confirms but the ID cannot be recovered by any
// strategy, the returned result has AssetIDRecovered=false and err is nil:
// the asset exists, its ID is simply unknown, and the caller should point
// the user at result.ExplorerURL.
func (e *Engine) CreateAsset(ctx context.Context, params CreateAssetParams) (*CreateAssetResult, error) {
	if err := e.requireNodeAndSigner(); err != nil {
		return nil, err
	}
	if err := validateAddress(params.Creator); err != nil {
		return nil, err
	}
	if params.BaseSupply == 0 {
		return nil, fmt.Errorf("%w: total supply must be positive", ErrInvalidAmount)
	}
	if params.Decimals > 19 {
		return nil, fmt.Errorf("%w: decimals %d out of range", ErrInvalidAmount, params.Decimals)
	}

	report(params.OnStep, StepBuild, StepInProgress, "computing total supply")
	total, err := algo.ComputeTotalSupply(params.BaseSupply, params.Decimals)
	if err != nil {
		report(params.OnStep, StepBuild, StepFailed, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}

	manager := defaultAddr(params.Manager, params.Creator)
	reserve := defaultAddr(params.Reserve, params.Creator)
	freeze := defaultAddr(params.Freeze, params.Creator)
	clawback := defaultAddr(params.Clawback, params.Creator)
	for _, addr := range []string{manager, reserve, freeze, clawback} {
		if err := validateAddress(addr); err != nil {
			report(params.OnStep, StepBuild, StepFailed, err.Error())
			return nil, err
		}
	}

	assetURL := ""
	if params.Metadata != nil {
		report(params.OnStep, StepMetadata, StepInProgress, "publishing ARC-3 metadata")
		published, err := metadata.Publish(ctx, e.Uploader, *params.Metadata, params.MetadataBucket, params.MetadataNameHint)
		if err != nil {
			report(params.OnStep, StepMetadata, StepFailed, err.Error())
			return nil, err
		}
		assetURL = published.URL
		report(params.OnStep, StepMetadata, StepCompleted, assetURL)
	}

	sp, err := e.Node.SuggestedParams(ctx)
	if err != nil {
		report(params.OnStep, StepBuild, StepFailed, err.Error())
		return nil, err
	}

	txn, err := transaction.MakeAssetCreateTxn(
		params.Creator,
		[]byte(params.Note),
		sp,
		total,
		params.Decimals,
		params.DefaultFrozen,
		manager,
		reserve,
		freeze,
		clawback,
		params.UnitName,
		params.Name,
		assetURL,
		"",
	)
	if err != nil {
		report(params.OnStep, StepBuild, StepFailed, err.Error())
		return nil, fmt.Errorf("failed to build asset create transaction: %w", err)
	}
	report(params.OnStep, StepBuild, StepCompleted, "")

	report(params.OnStep, StepSign, StepInProgress, "waiting for signature")
	stx, err := e.Signer(ctx, txn)
	if err != nil {
		report(params.OnStep, StepSign, StepFailed, err.Error())
		return nil, fmt.Errorf("signing failed: %w", err)
	}
	report(params.OnStep, StepSign, StepCompleted, "")

	report(params.OnStep, StepBroadcast, StepInProgress, "submitting transaction")
	txid, err := e.Node.SendRawTransaction(ctx, stx)
	if err != nil {
		report(params.OnStep, StepBroadcast, StepFailed, err.Error())
		return nil, err
	}
	report(params.OnStep, StepBroadcast, StepCompleted, txid)

	report(params.OnStep, StepConfirm, StepInProgress, txid)
	conf, err := algo.WaitForConfirmation(ctx, e.Node, txid, DefaultRoundBudget, e.Network.Key)
	if err != nil {
		report(params.OnStep, StepConfirm, StepFailed, err.Error())
		return nil, err
	}
	report(params.OnStep, StepConfirm, StepCompleted, fmt.Sprintf("round %d", conf.ConfirmedRound))

	result := &CreateAssetResult{
		TxID:           txid,
		ConfirmedRound: conf.ConfirmedRound,
		AssetURL:       assetURL,
		ExplorerURL:    e.Network.ExplorerTxURL(txid),
	}

	report(params.OnStep, StepRecover, StepInProgress, "recovering created asset ID")
	assetID, err := algo.RecoverAssetID(ctx, conf, e.Node, e.Indexer, params.Creator, e.Network.Key, e.Recovery)
	if err != nil {
		if errors.Is(err, algo.ErrAssetIDNotFound) {
			// The asset exists; only its ID is unknown. Partial success.
			util.Warn("asset created but ID unknown", "txid", txid, "explorer", result.ExplorerURL)
			report(params.OnStep, StepRecover, StepFailed, err.Error())
			return result, nil
		}
		report(params.OnStep, StepRecover, StepFailed, err.Error())
		return nil, err
	}
	report(params.OnStep, StepRecover, StepCompleted, fmt.Sprintf("asset %d", assetID))

	result.AssetID = assetID
	result.AssetIDRecovered = true
	return result, nil
}

func defaultAddr(addr, fallback string) string {
	if addr == "" {
		return fallback
	}
	return addr
}
