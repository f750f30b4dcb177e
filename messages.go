package main

import (
	"math/big"

	"waveportal-tui/portal"
	"waveportal-tui/rpc"

	"github.com/ethereum/go-ethereum/core/types"
)

// -------------------- TEA MESSAGES --------------------
// All custom message types for The Elm Architecture

// rpcConnectedMsg contains result of RPC connection attempt
type rpcConnectedMsg struct {
	client *rpc.Client
	err    error
}

// walletDetectedMsg is the result of the non-prompting account check
type walletDetectedMsg struct {
	account string
	err     error
}

// walletConnectedMsg is the result of an explicit authorization request
type walletConnectedMsg struct {
	account string
	err     error
}

// wavesLoadedMsg carries the full history read from the contract
type wavesLoadedMsg struct {
	waves []portal.Wave
	err   error
}

// waveSentMsg reports that the wallet accepted (or refused) a wave
type waveSentMsg struct {
	tx    *types.Transaction
	total *big.Int // count read before sending
	err   error
}

// waveMinedMsg reports the end of the mined wait for a sent wave
type waveMinedMsg struct {
	tx      *types.Transaction
	receipt *types.Receipt
	err     error
}

// totalWavesMsg carries a count read for the log
type totalWavesMsg struct {
	total *big.Int
	err   error
}

// subscribedMsg contains the live NewWave feed, once acquired
type subscribedMsg struct {
	sub *portal.Subscription
	err error
}

// newWaveMsg is one live NewWave event
type newWaveMsg struct {
	wave portal.Wave
}

// subscriptionEndedMsg signals that the live feed stopped
type subscriptionEndedMsg struct {
	err error
}

// ensLookupResultMsg contains result of reverse ENS lookup (address -> name)
type ensLookupResultMsg struct {
	address   string
	ensName   string
	err       error
	debugInfo string
}

// clipboardCopiedMsg indicates clipboard copy completed
type clipboardCopiedMsg struct {
	err error
}

// clearCopiedMsg hides the clipboard feedback
type clearCopiedMsg struct{}
