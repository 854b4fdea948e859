package networks

import (
	"context"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/nwr-dao/endorse-client/internal/endorse-client/helpers"
)

const probeTimeout = 7 * time.Second

type ProbeResult struct {
	RPCURL        string `json:"rpcUrl"`
	ChainID       uint64 `json:"chainId"`
	ChainIDHex    string `json:"chainIdHex"`
	Name          string `json:"name,omitempty"`
	Explorer      string `json:"explorer,omitempty"`
	Contract      bool   `json:"contract"`
	ClientVersion string `json:"clientVersion,omitempty"`
	LatestBlock   uint64 `json:"latestBlock,omitempty"`
}

// ProbeRPC identifies the chain behind an http(s) or ws(s) JSON-RPC endpoint.
// Only eth_chainId is required; the other calls fill in what they can.
func ProbeRPC(ctx context.Context, rawURL string) (ProbeResult, error) {
	out := ProbeResult{RPCURL: strings.TrimSpace(rawURL)}
	if out.RPCURL == "" {
		return out, errors.New("missing rpc url")
	}
	u, err := url.Parse(out.RPCURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return out, errors.Newf("invalid rpc url %q", out.RPCURL)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return out, errors.Newf("unsupported rpc url scheme: %s", u.Scheme)
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	client, err := rpc.DialContext(ctx, out.RPCURL)
	if err != nil {
		return out, errors.Wrap(err, "dial rpc")
	}
	defer client.Close()

	var chainHex string
	if err := client.CallContext(ctx, &chainHex, "eth_chainId"); err != nil {
		return out, errors.Wrap(err, "eth_chainId")
	}
	chainID, err := hexutil.DecodeBig(strings.ToLower(helpers.NormalizeHex0x(strings.TrimSpace(chainHex))))
	if err != nil {
		return out, errors.Wrapf(err, "eth_chainId result %q", chainHex)
	}
	out.ChainID = chainID.Uint64()
	out.ChainIDHex = hexutil.EncodeBig(chainID)

	var netVersion string
	if err := client.CallContext(ctx, &netVersion, "net_version"); err == nil && out.ChainID == 0 {
		if v, perr := strconv.ParseUint(strings.TrimSpace(netVersion), 10, 64); perr == nil {
			out.ChainID = v
			out.ChainIDHex = hexutil.EncodeUint64(v)
		}
	}

	var clientVersion string
	if err := client.CallContext(ctx, &clientVersion, "web3_clientVersion"); err == nil {
		out.ClientVersion = strings.TrimSpace(clientVersion)
	}

	var blk struct {
		Number hexutil.Uint64 `json:"number"`
	}
	if err := client.CallContext(ctx, &blk, "eth_getBlockByNumber", "latest", false); err == nil {
		out.LatestBlock = uint64(blk.Number)
	}

	if k, ok := Lookup(new(big.Int).SetUint64(out.ChainID)); ok {
		out.Name = k.Name
		out.Explorer = k.Explorer
		out.Contract = k.Contract
	}
	return out, nil
}
