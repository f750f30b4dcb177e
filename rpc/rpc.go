package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"waveportal-tui/wallet"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// JSON-RPC "method not found"
const codeMethodNotFound = -32601

// Client wraps an Ethereum RPC endpoint whose node manages the user's
// accounts. It is both the wallet provider and the contract backend.
type Client struct {
	*ethclient.Client
	raw     *gethrpc.Client
	URL     string
	ChainID *big.Int
}

// ConnectResult holds the result of an RPC connection attempt
type ConnectResult struct {
	Client *Client
	Error  error
}

// Connect attempts to connect to an Ethereum RPC endpoint
func Connect(url string) ConnectResult {
	return ConnectWithTimeout(url, 8*time.Second)
}

// ConnectWithTimeout attempts to connect with a custom timeout
func ConnectWithTimeout(url string, timeout time.Duration) ConnectResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	raw, err := gethrpc.DialContext(ctx, url)
	if err != nil {
		return ConnectResult{Client: nil, Error: err}
	}

	client := ethclient.NewClient(raw)
	chainID, err := client.ChainID(ctx)
	if err != nil {
		raw.Close()
		return ConnectResult{Client: nil, Error: fmt.Errorf("chain id: %w", err)}
	}

	return ConnectResult{
		Client: &Client{
			Client:  client,
			raw:     raw,
			URL:     url,
			ChainID: chainID,
		},
		Error: nil,
	}
}

// Request performs a raw JSON-RPC call. Nodes that do not know
// eth_requestAccounts are asked for eth_accounts instead, since their
// accounts need no interactive grant.
func (c *Client) Request(ctx context.Context, result any, method string, params ...any) error {
	err := c.raw.CallContext(ctx, result, method, params...)
	if err != nil && method == wallet.MethodRequestAccounts && isMethodNotFound(err) {
		return c.raw.CallContext(ctx, result, wallet.MethodAccounts)
	}
	return err
}

// Transactor returns options that sign through the node for account from
func (c *Client) Transactor(ctx context.Context, from common.Address) *bind.TransactOpts {
	return &bind.TransactOpts{
		From:    from,
		Context: ctx,
		Signer: func(addr common.Address, tx *types.Transaction) (*types.Transaction, error) {
			return c.SignTransaction(ctx, addr, tx)
		},
	}
}

type signArgs struct {
	From                 common.Address  `json:"from"`
	To                   *common.Address `json:"to,omitempty"`
	Gas                  hexutil.Uint64  `json:"gas"`
	GasPrice             *hexutil.Big    `json:"gasPrice,omitempty"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas,omitempty"`
	Value                *hexutil.Big    `json:"value"`
	Nonce                hexutil.Uint64  `json:"nonce"`
	Data                 hexutil.Bytes   `json:"data"`
	Input                hexutil.Bytes   `json:"input"`
	ChainID              *hexutil.Big    `json:"chainId,omitempty"`
}

// SignTransaction asks the node to sign tx with account from via
// eth_signTransaction and checks the returned signature.
func (c *Client) SignTransaction(ctx context.Context, from common.Address, tx *types.Transaction) (*types.Transaction, error) {
	args := signArgs{
		From:    from,
		To:      tx.To(),
		Gas:     hexutil.Uint64(tx.Gas()),
		Value:   (*hexutil.Big)(tx.Value()),
		Nonce:   hexutil.Uint64(tx.Nonce()),
		Data:    tx.Data(),
		Input:   tx.Data(),
		ChainID: (*hexutil.Big)(c.ChainID),
	}
	if tx.Type() == types.DynamicFeeTxType {
		args.MaxFeePerGas = (*hexutil.Big)(tx.GasFeeCap())
		args.MaxPriorityFeePerGas = (*hexutil.Big)(tx.GasTipCap())
	} else {
		args.GasPrice = (*hexutil.Big)(tx.GasPrice())
	}

	var res json.RawMessage
	if err := c.raw.CallContext(ctx, &res, "eth_signTransaction", args); err != nil {
		return nil, fmt.Errorf("eth_signTransaction: %w", err)
	}
	blob, err := decodeSigned(res)
	if err != nil {
		return nil, err
	}

	signed := new(types.Transaction)
	if err := signed.UnmarshalBinary(blob); err != nil {
		return nil, fmt.Errorf("decode signed transaction: %w", err)
	}
	sender, err := types.Sender(types.LatestSignerForChainID(signed.ChainId()), signed)
	if err != nil {
		return nil, fmt.Errorf("recover signer: %w", err)
	}
	if sender != from {
		return nil, fmt.Errorf("node signed as %s, wanted %s", sender.Hex(), from.Hex())
	}
	return signed, nil
}

// decodeSigned accepts both the geth ({raw, tx}) and the bare hex result shape
func decodeSigned(res json.RawMessage) ([]byte, error) {
	var blob hexutil.Bytes
	if err := json.Unmarshal(res, &blob); err == nil && len(blob) > 0 {
		return blob, nil
	}
	var obj struct {
		Raw hexutil.Bytes `json:"raw"`
	}
	if err := json.Unmarshal(res, &obj); err != nil {
		return nil, fmt.Errorf("unexpected eth_signTransaction result: %w", err)
	}
	if len(obj.Raw) == 0 {
		return nil, errors.New("eth_signTransaction returned no raw transaction")
	}
	return obj.Raw, nil
}

func isMethodNotFound(err error) bool {
	var rpcErr gethrpc.Error
	return errors.As(err, &rpcErr) && rpcErr.ErrorCode() == codeMethodNotFound
}

// Close releases the underlying connection
func (c *Client) Close() {
	if c == nil || c.raw == nil {
		return
	}
	c.raw.Close()
}
