// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 asaforge Authors

package engine

// Step identifies one lifecycle phase for progress reporting.
type Step string

const (
	StepBuild     Step = "build"
	StepMetadata  Step = "metadata"
	StepAuthorize Step = "authorize"
	StepSign      Step = "sign"
	StepBroadcast Step = "broadcast"
	StepConfirm   Step = "confirm"
	StepRecover   Step = "recover"
)

// StepStatus is the state of a step at the moment of a callback.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in-progress"
	StepCompleted  StepStatus = "completed"
	StepFailed     StepStatus = "failed"
)

// StepFunc receives progress updates at lifecycle phase transitions. Called
// synchronously, fire-and-forget; it must not block and is never retried or
// persisted.
type StepFunc func(step Step, status StepStatus, detail string)

// report invokes the callback if one is set.
func report(fn StepFunc, step Step, status StepStatus, detail string) {
	if fn != nil {
		fn(step, status, detail)
	}
}

// TxnResult is the outcome of a confirmed lifecycle transaction.
type TxnResult struct {
	TxID           string
	ConfirmedRound uint64
	ExplorerURL    string
}

// CreateAssetResult is the outcome of asset creation. AssetIDRecovered is
// false when the transaction confirmed but every recovery strategy failed;
// the caller should direct the user to ExplorerURL rather than treating the
// creation as failed.
type CreateAssetResult struct {
	TxID             string
	ConfirmedRound   uint64
	AssetID          uint64
	AssetIDRecovered bool
	AssetURL         string
	ExplorerURL      string
}

// AssetHoldingSummary is one asset position in an account summary.
type AssetHoldingSummary struct {
	AssetID  uint64
	Amount   uint64
	IsFrozen bool
	Name     string
	UnitName string
	Decimals uint64
}

// AssetSummary is a display-oriented view of on-chain asset parameters.
type AssetSummary struct {
	AssetID       uint64
	Name          string
	UnitName      string
	Decimals      uint64
	Total         uint64
	Creator       string
	Manager       string
	Reserve       string
	Freeze        string
	Clawback      string
	DefaultFrozen bool
	URL           string
	ExplorerURL   string
}

// AccountSummary aggregates an account's balances and created assets for
// dashboard display.
type AccountSummary struct {
	Address       string
	AlgoBalance   uint64 // microAlgos
	MinBalance    uint64
	Holdings      []AssetHoldingSummary
	CreatedAssets []AssetSummary
	ExplorerURL   string
}

// TransactionSummary is one row of display-oriented transaction history.
type TransactionSummary struct {
	TxID           string
	Type           string
	Sender         string
	Receiver       string
	Amount         uint64
	AssetID        uint64
	Fee            uint64
	ConfirmedRound uint64
	RoundTime      uint64
	ExplorerURL    string
}
