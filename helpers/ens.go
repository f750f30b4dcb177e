package helpers

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ens "github.com/wealdtech/go-ens/v3"
)

// ENSResult holds the outcome of an ENS lookup
type ENSResult struct {
	Name      string
	Error     error
	DebugInfo string
}

// LookupENS performs a reverse ENS lookup (address -> name)
func LookupENS(address string, backend bind.ContractBackend) ENSResult {
	if backend == nil {
		return ENSResult{Error: fmt.Errorf("no RPC client")}
	}
	if !IsValidEthAddress(address) {
		return ENSResult{Error: fmt.Errorf("invalid address %q", address)}
	}

	name, err := ens.ReverseResolve(backend, common.HexToAddress(address))
	if err != nil {
		return ENSResult{Error: err, DebugInfo: "reverse resolve failed for " + ShortenAddr(address)}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ENSResult{Error: fmt.Errorf("no reverse record"), DebugInfo: address}
	}
	return ENSResult{Name: name}
}
