package connectors

import (
	"context"
	"encoding/json"
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/quantumauth-io/quantum-go-utils/log"

	"github.com/nwr-dao/endorse-client/internal/endorse-client/chains"
)

// RPCDialFunc opens the wallet's JSON-RPC endpoint.
type RPCDialFunc func(ctx context.Context, url string) (*rpc.Client, error)

// RPCWallet talks to a vendor wallet that exposes the eth_* account methods over JSON-RPC.
type RPCWallet struct {
	desc    Descriptor
	url     string
	backend BackendSource
	dial    RPCDialFunc
}

func NewRPCWallet(desc Descriptor, url string, backend BackendSource) *RPCWallet {
	desc.Kind = KindInjected
	desc.Flags |= FlagInPageSigner
	return &RPCWallet{desc: desc, url: url, backend: backend, dial: rpc.DialContext}
}

// WithDialer replaces how the wallet endpoint is reached.
func (w *RPCWallet) WithDialer(d RPCDialFunc) *RPCWallet {
	w.dial = d
	return w
}

func (w *RPCWallet) Descriptor() Descriptor { return w.desc }

func (w *RPCWallet) Connect(ctx context.Context) (Provider, error) {
	if strings.TrimSpace(w.url) == "" {
		return nil, errors.Newf("connector %s: wallet url is empty", w.desc.ID)
	}
	client, err := w.dial(ctx, w.url)
	if err != nil {
		return nil, errors.Wrapf(err, "dial wallet %s", w.desc.ID)
	}
	backend, err := w.backend.ActiveBackend(ctx)
	if err != nil {
		client.Close()
		return nil, errors.Wrap(err, "chain backend")
	}
	return &rpcProvider{client: client, backend: backend}, nil
}

type rpcProvider struct {
	client  *rpc.Client
	backend chains.Backend
}

func (p *rpcProvider) Backend() chains.Backend { return p.backend }

// Signer asks the wallet for access first and falls back to the passive account list.
func (p *rpcProvider) Signer(ctx context.Context) (Signer, error) {
	var accounts []common.Address
	if err := p.client.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		log.Warn("eth_requestAccounts failed, trying eth_accounts", "error", err)
		accounts = nil
	}
	if len(accounts) == 0 {
		if err := p.client.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
			return nil, errors.Wrap(err, "eth_accounts")
		}
	}
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}
	return &rpcSigner{client: p.client, from: accounts[0]}, nil
}

func (p *rpcProvider) ChainID(ctx context.Context) (*big.Int, error) {
	var id hexutil.Big
	if err := p.client.CallContext(ctx, &id, "eth_chainId"); err != nil {
		return nil, errors.Wrap(err, "eth_chainId")
	}
	return id.ToInt(), nil
}

func (p *rpcProvider) Close() error {
	p.client.Close()
	return nil
}

type rpcSigner struct {
	client *rpc.Client
	from   common.Address
}

func (s *rpcSigner) Address() common.Address { return s.from }

func (s *rpcSigner) TransactOpts(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error) {
	if chainID == nil {
		return nil, errors.New("chain id is nil")
	}
	signer := types.LatestSignerForChainID(chainID)
	return &bind.TransactOpts{
		From:    s.from,
		Context: ctx,
		Signer: func(from common.Address, tx *types.Transaction) (*types.Transaction, error) {
			if from != s.from {
				return nil, errors.Newf("not authorized to sign for %s", from.Hex())
			}
			return s.signRemote(ctx, signer, chainID, tx)
		},
	}, nil
}

// signTxArgs mirrors the wallet-side eth_signTransaction argument object.
type signTxArgs struct {
	From                 common.Address  `json:"from"`
	To                   *common.Address `json:"to,omitempty"`
	Gas                  hexutil.Uint64  `json:"gas"`
	GasPrice             *hexutil.Big    `json:"gasPrice,omitempty"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas,omitempty"`
	Value                *hexutil.Big    `json:"value"`
	Nonce                hexutil.Uint64  `json:"nonce"`
	Input                hexutil.Bytes   `json:"input"`
	ChainID              *hexutil.Big    `json:"chainId"`
}

func (s *rpcSigner) signRemote(ctx context.Context, signer types.Signer, chainID *big.Int, tx *types.Transaction) (*types.Transaction, error) {
	args := signTxArgs{
		From:    s.from,
		To:      tx.To(),
		Gas:     hexutil.Uint64(tx.Gas()),
		Value:   (*hexutil.Big)(tx.Value()),
		Nonce:   hexutil.Uint64(tx.Nonce()),
		Input:   tx.Data(),
		ChainID: (*hexutil.Big)(chainID),
	}
	if tx.Type() == types.LegacyTxType {
		args.GasPrice = (*hexutil.Big)(tx.GasPrice())
	} else {
		args.MaxFeePerGas = (*hexutil.Big)(tx.GasFeeCap())
		args.MaxPriorityFeePerGas = (*hexutil.Big)(tx.GasTipCap())
	}

	var res json.RawMessage
	if err := s.client.CallContext(ctx, &res, "eth_signTransaction", args); err != nil {
		return nil, errors.Wrap(err, "eth_signTransaction")
	}
	raw, err := decodeSignResult(res)
	if err != nil {
		return nil, err
	}

	signed := new(types.Transaction)
	if err := signed.UnmarshalBinary(raw); err != nil {
		return nil, errors.Wrap(err, "decode signed transaction")
	}
	sender, err := types.Sender(signer, signed)
	if err != nil {
		return nil, errors.Wrap(err, "recover signer")
	}
	if sender != s.from {
		return nil, errors.Newf("wallet signed as %s, expected %s", sender.Hex(), s.from.Hex())
	}
	return signed, nil
}

// decodeSignResult accepts a bare raw transaction or the {raw, tx} object geth returns.
func decodeSignResult(res json.RawMessage) ([]byte, error) {
	var raw hexutil.Bytes
	if err := json.Unmarshal(res, &raw); err == nil {
		return raw, nil
	}
	var obj struct {
		Raw hexutil.Bytes `json:"raw"`
	}
	if err := json.Unmarshal(res, &obj); err != nil {
		return nil, errors.Wrap(err, "decode eth_signTransaction result")
	}
	if len(obj.Raw) == 0 {
		return nil, errors.New("eth_signTransaction returned no raw transaction")
	}
	return obj.Raw, nil
}
