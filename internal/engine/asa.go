// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 asaforge Authors

package engine

// ASA lifecycle operations: opt-in, transfer, mint, burn, freeze, unfreeze.
// Every mutating operation re-fetches asset parameters before its
// authorization check; role addresses can be reconfigured on-chain at any
// time and a cached copy would allow stale-permission bugs.

import (
	"context"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/transaction"
)

// OptInParams contains parameters for ASA opt-in.
type OptInParams struct {
	Account string
	AssetID uint64
}

// TransferParams contains parameters for an ASA transfer.
type TransferParams struct {
	Sender   string
	Receiver string
	AssetID  uint64
	Amount   uint64 // base units
	Note     string
}

// MintParams contains parameters for releasing supply to a recipient.
// The acting address must be the asset's manager and hold the supply
// being released. Recipient defaults to the acting address.
type MintParams struct {
	Manager   string
	Recipient string
	AssetID   uint64
	Amount    uint64 // base units
}

// BurnParams contains parameters for burning supply. The acting address
// must be the asset's clawback; the burned units are revoked from its own
// holding back to the reserve.
type BurnParams struct {
	Clawback string
	AssetID  uint64
	Amount   uint64 // base units
}

// FreezeParams contains parameters for freezing or unfreezing a holding.
type FreezeParams struct {
	Freezer string
	Target  string
	AssetID uint64
	Frozen  bool // true to freeze, false to unfreeze
}

// OptIn submits the zero-amount self-transfer that opens a holding slot
// for the asset.
func (e *Engine) OptIn(ctx context.Context, params OptInParams) (*TxnResult, error) {
	if err := e.requireNodeAndSigner(); err != nil {
		return nil, err
	}
	if err := validateAddress(params.Account); err != nil {
		return nil, err
	}
	if _, err := e.assetInfo(ctx, params.AssetID); err != nil {
		return nil, err
	}

	sp, err := e.Node.SuggestedParams(ctx)
	if err != nil {
		return nil, err
	}

	txn, err := transaction.MakeAssetAcceptanceTxn(params.Account, nil, sp, params.AssetID)
	if err != nil {
		return nil, fmt.Errorf("failed to build opt-in transaction: %w", err)
	}

	result, _, err := e.signAndSubmit(ctx, txn, OptInRoundBudget)
	return result, err
}

// Transfer moves base units between opted-in accounts. The receiver's
// opt-in is verified before the transaction is built; the protocol would
// reject the transfer anyway, but failing fast avoids a wasted signature.
func (e *Engine) Transfer(ctx context.Context, params TransferParams) (*TxnResult, error) {
	if err := e.requireNodeAndSigner(); err != nil {
		return nil, err
	}
	if err := validateAddress(params.Sender); err != nil {
		return nil, err
	}
	if err := validateAddress(params.Receiver); err != nil {
		return nil, err
	}
	if params.Amount == 0 {
		return nil, fmt.Errorf("%w: transfer amount must be positive", ErrInvalidAmount)
	}
	if _, err := e.assetInfo(ctx, params.AssetID); err != nil {
		return nil, err
	}

	senderAcct, err := e.Node.AccountInformation(ctx, params.Sender)
	if err != nil {
		return nil, err
	}
	senderOptedIn := false
	var senderBalance uint64
	for _, holding := range senderAcct.Assets {
		if holding.AssetId == params.AssetID {
			senderOptedIn = true
			senderBalance = holding.Amount
			break
		}
	}
	if !senderOptedIn {
		return nil, fmt.Errorf("sender %s is not opted into asset %d", params.Sender, params.AssetID)
	}
	if senderBalance < params.Amount {
		return nil, fmt.Errorf("%w: balance %d is less than transfer amount %d", ErrInvalidAmount, senderBalance, params.Amount)
	}

	receiverAcct, err := e.Node.AccountInformation(ctx, params.Receiver)
	if err != nil {
		return nil, err
	}
	receiverOptedIn := false
	for _, holding := range receiverAcct.Assets {
		if holding.AssetId == params.AssetID {
			receiverOptedIn = true
			break
		}
	}
	if !receiverOptedIn {
		return nil, fmt.Errorf("%w: receiver %s is not opted-in to asset %d", ErrReceiverNotOptedIn, params.Receiver, params.AssetID)
	}

	sp, err := e.Node.SuggestedParams(ctx)
	if err != nil {
		return nil, err
	}

	txn, err := transaction.MakeAssetTransferTxn(
		params.Sender,
		params.Receiver,
		params.Amount,
		[]byte(params.Note),
		sp,
		"",
		params.AssetID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build transfer transaction: %w", err)
	}

	result, _, err := e.signAndSubmit(ctx, txn, DefaultRoundBudget)
	return result, err
}

// Mint releases supply from the manager's holding to the recipient.
func (e *Engine) Mint(ctx context.Context, params MintParams) (*TxnResult, error) {
	if err := e.requireNodeAndSigner(); err != nil {
		return nil, err
	}
	if err := validateAddress(params.Manager); err != nil {
		return nil, err
	}
	if params.Amount == 0 {
		return nil, fmt.Errorf("%w: mint amount must be positive", ErrInvalidAmount)
	}

	asset, err := e.assetInfo(ctx, params.AssetID)
	if err != nil {
		return nil, err
	}
	if asset.Params.Manager != params.Manager {
		return nil, fmt.Errorf("%w: %s is not the manager of asset %d", ErrUnauthorized, params.Manager, params.AssetID)
	}

	recipient := defaultAddr(params.Recipient, params.Manager)
	if err := validateAddress(recipient); err != nil {
		return nil, err
	}

	sp, err := e.Node.SuggestedParams(ctx)
	if err != nil {
		return nil, err
	}

	txn, err := transaction.MakeAssetTransferTxn(
		params.Manager,
		recipient,
		params.Amount,
		nil,
		sp,
		"",
		params.AssetID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build mint transaction: %w", err)
	}

	result, _, err := e.signAndSubmit(ctx, txn, DefaultRoundBudget)
	return result, err
}

// Burn revokes units from the clawback address's own holding back to the
// asset reserve, removing them from circulation.
func (e *Engine) Burn(ctx context.Context, params BurnParams) (*TxnResult, error) {
	if err := e.requireNodeAndSigner(); err != nil {
		return nil, err
	}
	if err := validateAddress(params.Clawback); err != nil {
		return nil, err
	}
	if params.Amount == 0 {
		return nil, fmt.Errorf("%w: burn amount must be positive", ErrInvalidAmount)
	}

	asset, err := e.assetInfo(ctx, params.AssetID)
	if err != nil {
		return nil, err
	}
	if asset.Params.Clawback != params.Clawback {
		return nil, fmt.Errorf("%w: %s is not the clawback address of asset %d", ErrUnauthorized, params.Clawback, params.AssetID)
	}

	sink := asset.Params.Reserve
	if sink == "" {
		sink = asset.Params.Creator
	}

	sp, err := e.Node.SuggestedParams(ctx)
	if err != nil {
		return nil, err
	}

	txn, err := transaction.MakeAssetRevocationTxn(
		params.Clawback,
		params.Clawback,
		params.Amount,
		sink,
		nil,
		sp,
		params.AssetID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build burn transaction: %w", err)
	}

	result, _, err := e.signAndSubmit(ctx, txn, DefaultRoundBudget)
	return result, err
}

// Freeze sets the frozen flag on the target's holding of the asset.
func (e *Engine) Freeze(ctx context.Context, params FreezeParams) (*TxnResult, error) {
	if err := e.requireNodeAndSigner(); err != nil {
		return nil, err
	}
	if err := validateAddress(params.Freezer); err != nil {
		return nil, err
	}
	if err := validateAddress(params.Target); err != nil {
		return nil, err
	}

	asset, err := e.assetInfo(ctx, params.AssetID)
	if err != nil {
		return nil, err
	}
	if asset.Params.Freeze != params.Freezer {
		return nil, fmt.Errorf("%w: %s is not the freeze address of asset %d", ErrUnauthorized, params.Freezer, params.AssetID)
	}

	sp, err := e.Node.SuggestedParams(ctx)
	if err != nil {
		return nil, err
	}

	txn, err := transaction.MakeAssetFreezeTxn(
		params.Freezer,
		nil,
		sp,
		params.AssetID,
		params.Target,
		params.Frozen,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build freeze transaction: %w", err)
	}

	result, _, err := e.signAndSubmit(ctx, txn, DefaultRoundBudget)
	return result, err
}

// Unfreeze clears the frozen flag on the target's holding of the asset.
func (e *Engine) Unfreeze(ctx context.Context, params FreezeParams) (*TxnResult, error) {
	params.Frozen = false
	return e.Freeze(ctx, params)
}
