// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 asaforge Authors

package engine

import (
	"errors"

	"github.com/asaforge-algo/asaforge/internal/algo"
)

var (
	// ErrNoNode indicates the algod client is not configured
	ErrNoNode = errors.New("algod client not configured")

	// ErrNoSigner indicates no transaction signer was supplied
	ErrNoSigner = errors.New("no transaction signer configured")

	// ErrInvalidAddress indicates a malformed Algorand address
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidAmount indicates a zero or otherwise unusable amount
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidAssetID indicates an invalid asset ID
	ErrInvalidAssetID = errors.New("invalid asset ID")

	// ErrUnauthorized indicates the acting address does not hold the role
	// required for the requested mutation. Checked before signing so no
	// user interaction is wasted on a doomed transaction.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrReceiverNotOptedIn indicates a transfer to an account without a
	// holding slot for the asset. Surfaced before building the transaction
	// rather than letting the network reject it.
	ErrReceiverNotOptedIn = errors.New("receiver not opted in")

	// ErrAssetIDNotFound re-exports the recovery failure: the create
	// transaction confirmed but the new asset's ID is unknown. A partial
	// success, not an operation failure.
	ErrAssetIDNotFound = algo.ErrAssetIDNotFound
)
