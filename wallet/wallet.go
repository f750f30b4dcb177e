// Package wallet answers the two questions the app asks a wallet provider:
// which account has already authorized us, and can the user authorize one now.
package wallet

import (
	"context"
	"errors"
	"fmt"
)

// JSON-RPC methods a wallet provider must support
const (
	MethodAccounts        = "eth_accounts"
	MethodRequestAccounts = "eth_requestAccounts"
)

var (
	// ErrNoWallet is returned when no wallet provider is present
	ErrNoWallet = errors.New("wallet: no wallet provider")
	// ErrNoAccounts is returned when authorization yields no account
	ErrNoAccounts = errors.New("wallet: no accounts returned")
)

// Injected is the host-provided wallet object: a JSON-RPC request method.
type Injected interface {
	Request(ctx context.Context, result any, method string, params ...any) error
}

// AuthorizedAccount returns the first already-authorized account without
// prompting. An empty string with a nil error means nothing is authorized.
func AuthorizedAccount(ctx context.Context, w Injected) (string, error) {
	if w == nil {
		return "", ErrNoWallet
	}
	var accounts []string
	if err := w.Request(ctx, &accounts, MethodAccounts); err != nil {
		return "", fmt.Errorf("%s: %w", MethodAccounts, err)
	}
	if len(accounts) == 0 {
		return "", nil
	}
	return accounts[0], nil
}

// RequestAccount asks the wallet to authorize an account, which may prompt
// the user, and returns the first one granted.
func RequestAccount(ctx context.Context, w Injected) (string, error) {
	if w == nil {
		return "", ErrNoWallet
	}
	var accounts []string
	if err := w.Request(ctx, &accounts, MethodRequestAccounts); err != nil {
		return "", fmt.Errorf("%s: %w", MethodRequestAccounts, err)
	}
	if len(accounts) == 0 {
		return "", ErrNoAccounts
	}
	return accounts[0], nil
}
