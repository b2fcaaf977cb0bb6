// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 asaforge Authors

// asaforge is a command-line front end for the asset lifecycle engine:
// create, opt-in, send, mint, burn, freeze and unfreeze ASAs, plus simple
// portfolio and asset views.
//
// Signing uses a local mnemonic supplied via the ASAFORGE_MNEMONIC
// environment variable or an interactive prompt. Production deployments
// are expected to inject an external wallet signer instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"golang.org/x/term"

	"github.com/asaforge-algo/asaforge/internal/algo"
	"github.com/asaforge-algo/asaforge/internal/engine"
	"github.com/asaforge-algo/asaforge/internal/metadata"
	"github.com/asaforge-algo/asaforge/internal/netconfig"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "create":
		err = runCreate(args)
	case "optin":
		err = runOptIn(args)
	case "send":
		err = runSend(args)
	case "mint":
		err = runMint(args)
	case "burn":
		err = runBurn(args)
	case "freeze":
		err = runFreeze(args, true)
	case "unfreeze":
		err = runFreeze(args, false)
	case "info":
		err = runInfo(args)
	case "portfolio":
		err = runPortfolio(args)
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: asaforge <command> [flags]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  create     Create a new asset")
	fmt.Fprintln(os.Stderr, "  optin      Opt an account into an asset")
	fmt.Fprintln(os.Stderr, "  send       Transfer asset units")
	fmt.Fprintln(os.Stderr, "  mint       Release supply to a recipient (manager only)")
	fmt.Fprintln(os.Stderr, "  burn       Burn supply back to the reserve (clawback only)")
	fmt.Fprintln(os.Stderr, "  freeze     Freeze a holding (freeze address only)")
	fmt.Fprintln(os.Stderr, "  unfreeze   Unfreeze a holding (freeze address only)")
	fmt.Fprintln(os.Stderr, "  info       Show asset parameters")
	fmt.Fprintln(os.Stderr, "  portfolio  Show account balances and recent transactions")
}

// commonFlags registers the flags shared by every subcommand.
func commonFlags(fs *flag.FlagSet) (network *string, configPath *string) {
	network = fs.String("network", netconfig.DefaultNetworkKey, "Network (mainnet, testnet, betanet)")
	configPath = fs.String("config", "", "Optional network config override file (YAML)")
	return
}

// buildEngine wires an engine with real algod/indexer clients and a
// mnemonic signer for the given network.
func buildEngine(networkKey, configPath string, needSigner bool) (*engine.Engine, string, error) {
	registry, err := netconfig.LoadRegistry(configPath)
	if err != nil {
		return nil, "", err
	}
	network := registry.Get(networkKey)

	node, err := algo.MakeNode(network)
	if err != nil {
		return nil, "", err
	}
	idx, err := algo.MakeIndexer(network)
	if err != nil {
		return nil, "", err
	}

	opts := []engine.EngineOption{
		engine.WithNode(node),
		engine.WithIndexer(idx),
	}

	address := ""
	if needSigner {
		signer, addr, err := mnemonicSigner()
		if err != nil {
			return nil, "", err
		}
		address = addr
		opts = append(opts, engine.WithSigner(signer))
	}

	eng, err := engine.NewEngine(network, opts...)
	if err != nil {
		return nil, "", err
	}
	return eng, address, nil
}

// mnemonicSigner builds a Signer from ASAFORGE_MNEMONIC or an interactive
// prompt, and returns the derived address.
func mnemonicSigner() (engine.Signer, string, error) {
	phrase := os.Getenv("ASAFORGE_MNEMONIC")
	if phrase == "" {
		fmt.Print("Enter mnemonic: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read mnemonic: %w", err)
		}
		phrase = strings.TrimSpace(string(raw))
	}

	sk, err := mnemonic.ToPrivateKey(phrase)
	if err != nil {
		return nil, "", fmt.Errorf("invalid mnemonic: %w", err)
	}
	account, err := crypto.AccountFromPrivateKey(sk)
	if err != nil {
		return nil, "", fmt.Errorf("failed to derive account: %w", err)
	}

	signer := func(ctx context.Context, txn types.Transaction) ([]byte, error) {
		_, stx, err := crypto.SignTransaction(sk, txn)
		return stx, err
	}
	return signer, account.Address.String(), nil
}

func runCreate(args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	network, configPath := commonFlags(fs)
	name := fs.String("name", "", "Asset name")
	unit := fs.String("unit", "", "Unit name (ticker)")
	supply := fs.Uint64("supply", 0, "Base supply in whole tokens")
	decimals := fs.Uint("decimals", 0, "Decimal places")
	frozen := fs.Bool("frozen", false, "Holdings frozen by default")
	description := fs.String("description", "", "Metadata description (published as ARC-3 JSON when set)")
	metadataDir := fs.String("metadata-dir", "", "Local directory for metadata publication")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *supply == 0 {
		return fmt.Errorf("create requires -name and -supply")
	}

	eng, creator, err := buildEngine(*network, *configPath, true)
	if err != nil {
		return err
	}

	params := engine.CreateAssetParams{
		Creator:       creator,
		Name:          *name,
		UnitName:      *unit,
		BaseSupply:    *supply,
		Decimals:      uint32(*decimals),
		DefaultFrozen: *frozen,
		OnStep: func(step engine.Step, status engine.StepStatus, detail string) {
			if detail != "" {
				fmt.Printf("[%s] %s: %s\n", step, status, detail)
			} else {
				fmt.Printf("[%s] %s\n", step, status)
			}
		},
	}

	if *description != "" {
		eng.Uploader = dirUploader(*metadataDir)
		params.Metadata = &metadata.Document{
			Name:        *name,
			UnitName:    *unit,
			Description: *description,
			Decimals:    uint32(*decimals),
		}
		params.MetadataNameHint = strings.ToLower(*unit)
	}

	result, err := eng.CreateAsset(context.Background(), params)
	if err != nil {
		return err
	}

	fmt.Printf("Transaction %s confirmed in round %d\n", result.TxID, result.ConfirmedRound)
	if result.AssetIDRecovered {
		fmt.Printf("Created asset %d\n", result.AssetID)
	} else {
		fmt.Printf("Asset created but ID unknown, check explorer: %s\n", result.ExplorerURL)
	}
	return nil
}

// dirUploader publishes metadata documents to a local directory. It stands
// in for the product's object-storage service during development.
func dirUploader(dir string) metadata.UploadFunc {
	return func(ctx context.Context, payload []byte, bucket, name string) (string, error) {
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
		path := dir + "/" + name
		if err := os.WriteFile(path, payload, 0o644); err != nil {
			return "", err
		}
		return "file://" + path, nil
	}
}

func runOptIn(args []string) error {
	fs := flag.NewFlagSet("optin", flag.ExitOnError)
	network, configPath := commonFlags(fs)
	assetID := fs.Uint64("asset", 0, "Asset ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *assetID == 0 {
		return fmt.Errorf("optin requires -asset")
	}

	eng, account, err := buildEngine(*network, *configPath, true)
	if err != nil {
		return err
	}

	result, err := eng.OptIn(context.Background(), engine.OptInParams{Account: account, AssetID: *assetID})
	if err != nil {
		return err
	}
	fmt.Printf("Opted %s into asset %d (tx %s, round %d)\n", account, *assetID, result.TxID, result.ConfirmedRound)
	return nil
}

func runSend(args []string) error {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	network, configPath := commonFlags(fs)
	assetID := fs.Uint64("asset", 0, "Asset ID")
	to := fs.String("to", "", "Receiver address")
	amount := fs.String("amount", "", "Amount in tokens (decimal)")
	note := fs.String("note", "", "Optional note")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *assetID == 0 || *to == "" || *amount == "" {
		return fmt.Errorf("send requires -asset, -to and -amount")
	}

	eng, sender, err := buildEngine(*network, *configPath, true)
	if err != nil {
		return err
	}

	asset, err := eng.GetAssetSummary(context.Background(), *assetID)
	if err != nil {
		return err
	}
	baseUnits, err := algo.ConvertTokenAmountToBaseUnits(*amount, asset.Decimals)
	if err != nil {
		return err
	}

	result, err := eng.Transfer(context.Background(), engine.TransferParams{
		Sender:   sender,
		Receiver: *to,
		AssetID:  *assetID,
		Amount:   baseUnits,
		Note:     *note,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Sent %s %s to %s (tx %s, round %d)\n", *amount, asset.UnitName, *to, result.TxID, result.ConfirmedRound)
	return nil
}

func runMint(args []string) error {
	fs := flag.NewFlagSet("mint", flag.ExitOnError)
	network, configPath := commonFlags(fs)
	assetID := fs.Uint64("asset", 0, "Asset ID")
	to := fs.String("to", "", "Recipient address (default: manager)")
	amount := fs.String("amount", "", "Amount in tokens (decimal)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *assetID == 0 || *amount == "" {
		return fmt.Errorf("mint requires -asset and -amount")
	}

	eng, manager, err := buildEngine(*network, *configPath, true)
	if err != nil {
		return err
	}

	asset, err := eng.GetAssetSummary(context.Background(), *assetID)
	if err != nil {
		return err
	}
	baseUnits, err := algo.ConvertTokenAmountToBaseUnits(*amount, asset.Decimals)
	if err != nil {
		return err
	}

	result, err := eng.Mint(context.Background(), engine.MintParams{
		Manager:   manager,
		Recipient: *to,
		AssetID:   *assetID,
		Amount:    baseUnits,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Minted %s %s (tx %s, round %d)\n", *amount, asset.UnitName, result.TxID, result.ConfirmedRound)
	return nil
}

func runBurn(args []string) error {
	fs := flag.NewFlagSet("burn", flag.ExitOnError)
	network, configPath := commonFlags(fs)
	assetID := fs.Uint64("asset", 0, "Asset ID")
	amount := fs.String("amount", "", "Amount in tokens (decimal)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *assetID == 0 || *amount == "" {
		return fmt.Errorf("burn requires -asset and -amount")
	}

	eng, clawback, err := buildEngine(*network, *configPath, true)
	if err != nil {
		return err
	}

	asset, err := eng.GetAssetSummary(context.Background(), *assetID)
	if err != nil {
		return err
	}
	baseUnits, err := algo.ConvertTokenAmountToBaseUnits(*amount, asset.Decimals)
	if err != nil {
		return err
	}

	result, err := eng.Burn(context.Background(), engine.BurnParams{
		Clawback: clawback,
		AssetID:  *assetID,
		Amount:   baseUnits,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Burned %s %s (tx %s, round %d)\n", *amount, asset.UnitName, result.TxID, result.ConfirmedRound)
	return nil
}

func runFreeze(args []string, frozen bool) error {
	name := "freeze"
	if !frozen {
		name = "unfreeze"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	network, configPath := commonFlags(fs)
	assetID := fs.Uint64("asset", 0, "Asset ID")
	target := fs.String("target", "", "Account whose holding is frozen/unfrozen")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *assetID == 0 || *target == "" {
		return fmt.Errorf("%s requires -asset and -target", name)
	}

	eng, freezer, err := buildEngine(*network, *configPath, true)
	if err != nil {
		return err
	}

	params := engine.FreezeParams{
		Freezer: freezer,
		Target:  *target,
		AssetID: *assetID,
		Frozen:  frozen,
	}
	var result *engine.TxnResult
	if frozen {
		result, err = eng.Freeze(context.Background(), params)
	} else {
		result, err = eng.Unfreeze(context.Background(), params)
	}
	if err != nil {
		return err
	}
	action := "Froze"
	if !frozen {
		action = "Unfroze"
	}
	fmt.Printf("%s holding of %s for asset %d (tx %s, round %d)\n",
		action, *target, *assetID, result.TxID, result.ConfirmedRound)
	return nil
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	network, configPath := commonFlags(fs)
	assetID := fs.Uint64("asset", 0, "Asset ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *assetID == 0 {
		return fmt.Errorf("info requires -asset")
	}

	eng, _, err := buildEngine(*network, *configPath, false)
	if err != nil {
		return err
	}

	asset, err := eng.GetAssetSummary(context.Background(), *assetID)
	if err != nil {
		return err
	}

	fmt.Printf("Asset %d: %s (%s)\n", asset.AssetID, asset.Name, asset.UnitName)
	fmt.Printf("  Total:    %d (%d decimals)\n", asset.Total, asset.Decimals)
	fmt.Printf("  Creator:  %s\n", asset.Creator)
	fmt.Printf("  Manager:  %s\n", asset.Manager)
	fmt.Printf("  Reserve:  %s\n", asset.Reserve)
	fmt.Printf("  Freeze:   %s\n", asset.Freeze)
	fmt.Printf("  Clawback: %s\n", asset.Clawback)
	if asset.URL != "" {
		fmt.Printf("  URL:      %s\n", asset.URL)
	}
	fmt.Printf("  Explorer: %s\n", asset.ExplorerURL)
	return nil
}

func runPortfolio(args []string) error {
	fs := flag.NewFlagSet("portfolio", flag.ExitOnError)
	network, configPath := commonFlags(fs)
	address := fs.String("addr", "", "Account address (default: signer address)")
	txCount := fs.Uint64("txns", 10, "Number of recent transactions to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	needSigner := *address == ""
	eng, signerAddr, err := buildEngine(*network, *configPath, needSigner)
	if err != nil {
		return err
	}
	addr := *address
	if addr == "" {
		addr = signerAddr
	}

	summary, err := eng.GetAccountSummary(context.Background(), addr)
	if err != nil {
		return err
	}

	fmt.Printf("Account %s\n", summary.Address)
	fmt.Printf("  Balance: %d microAlgos (min %d)\n", summary.AlgoBalance, summary.MinBalance)
	for _, holding := range summary.Holdings {
		frozenMark := ""
		if holding.IsFrozen {
			frozenMark = " (frozen)"
		}
		fmt.Printf("  Asset %d: %d %s%s\n", holding.AssetID, holding.Amount, holding.UnitName, frozenMark)
	}
	for _, created := range summary.CreatedAssets {
		fmt.Printf("  Created asset %d: %s (%s)\n", created.AssetID, created.Name, created.UnitName)
	}

	txns, err := eng.GetRecentTransactions(context.Background(), addr, *txCount)
	if err != nil {
		return err
	}
	if len(txns) > 0 {
		fmt.Println("Recent transactions:")
		for _, txn := range txns {
			fmt.Printf("  %s round=%d type=%s amount=%d asset=%d\n",
				txn.TxID, txn.ConfirmedRound, txn.Type, txn.Amount, txn.AssetID)
		}
	}
	return nil
}
