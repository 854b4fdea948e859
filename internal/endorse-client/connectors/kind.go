package connectors

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
)

// Kind is the way a session reaches its signer.
type Kind int

const (
	KindNone Kind = iota
	KindInjected
	KindWalletConnectRelay
	KindCoinbaseRelay
	KindExternalDeepLink
)

var kindNames = map[Kind]string{
	KindNone:               "none",
	KindInjected:           "injected",
	KindWalletConnectRelay: "walletconnect",
	KindCoinbaseRelay:      "coinbase",
	KindExternalDeepLink:   "deeplink",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindNone, errors.Newf("unknown connector kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Flags are static descriptor attributes.
type Flags uint8

const (
	// FlagPriority selects the connector without asking when its global is injected.
	FlagPriority Flags = 1 << iota
	FlagInPageSigner
	FlagDeepLink
)

func (f Flags) Has(x Flags) bool { return f&x == x }

func (f Flags) MarshalJSON() ([]byte, error) {
	var names []string
	if f.Has(FlagPriority) {
		names = append(names, `"priority"`)
	}
	if f.Has(FlagInPageSigner) {
		names = append(names, `"inPageSigner"`)
	}
	if f.Has(FlagDeepLink) {
		names = append(names, `"deepLink"`)
	}
	return []byte("[" + strings.Join(names, ",") + "]"), nil
}

func (f *Flags) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return errors.Wrap(err, "connector flags")
	}
	var out Flags
	for _, n := range names {
		switch n {
		case "priority":
			out |= FlagPriority
		case "inPageSigner":
			out |= FlagInPageSigner
		case "deepLink":
			out |= FlagDeepLink
		default:
			return errors.Newf("unknown connector flag %q", n)
		}
	}
	*f = out
	return nil
}

// Descriptor is the static, user-visible description of a connector.
type Descriptor struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Kind        Kind   `json:"kind"`
	Flags       Flags  `json:"flags"`
	// Global is the injected page global that marks this wallet as present.
	Global string `json:"global,omitempty"`
}
