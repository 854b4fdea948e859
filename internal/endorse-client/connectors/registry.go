package connectors

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Config is one configured connector.
type Config struct {
	ID          string `mapstructure:"id" json:"id" yaml:"id"`
	DisplayName string `mapstructure:"displayName" json:"displayName" yaml:"displayName"`
	// Type is one of keystore, rpc, walletconnect, coinbase, deeplink.
	Type     string `mapstructure:"type" json:"type" yaml:"type"`
	Global   string `mapstructure:"global" json:"global" yaml:"global"`
	Priority bool   `mapstructure:"priority" json:"priority" yaml:"priority"`

	KeyFile       string `mapstructure:"keyFile" json:"keyFile" yaml:"keyFile"`
	PrivateKeyEnv string `mapstructure:"privateKeyEnv" json:"privateKeyEnv" yaml:"privateKeyEnv"`
	PassphraseEnv string `mapstructure:"passphraseEnv" json:"passphraseEnv" yaml:"passphraseEnv"`

	URL string `mapstructure:"url" json:"url" yaml:"url"`

	TONAddress string `mapstructure:"tonAddress" json:"tonAddress" yaml:"tonAddress"`
	Text       string `mapstructure:"text" json:"text" yaml:"text"`
}

// Registry holds the configured connectors in display order.
type Registry struct {
	ordered []Connector
	byID    map[string]Connector
}

func NewRegistry(cs ...Connector) (*Registry, error) {
	r := &Registry{byID: make(map[string]Connector, len(cs))}
	for _, c := range cs {
		id := strings.ToLower(c.Descriptor().ID)
		if id == "" {
			return nil, errors.New("connector id is empty")
		}
		if _, dup := r.byID[id]; dup {
			return nil, errors.Newf("duplicate connector id %q", id)
		}
		r.byID[id] = c
		r.ordered = append(r.ordered, c)
	}
	return r, nil
}

// BuildRegistry constructs connectors from configuration. Secrets are read
// from the environment variables the config names.
func BuildRegistry(cfgs []Config, backend BackendSource, getenv func(string) string) (*Registry, error) {
	cs := make([]Connector, 0, len(cfgs))
	for _, cfg := range cfgs {
		c, err := buildConnector(cfg, backend, getenv)
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	return NewRegistry(cs...)
}

func buildConnector(cfg Config, backend BackendSource, getenv func(string) string) (Connector, error) {
	desc := Descriptor{
		ID:          strings.TrimSpace(cfg.ID),
		DisplayName: strings.TrimSpace(cfg.DisplayName),
		Global:      strings.TrimSpace(cfg.Global),
	}
	if desc.DisplayName == "" {
		desc.DisplayName = desc.ID
	}
	if cfg.Priority {
		desc.Flags |= FlagPriority
	}
	env := func(name string) string {
		if name == "" || getenv == nil {
			return ""
		}
		return getenv(name)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "keystore":
		return NewKeystore(desc, KeystoreConfig{
			KeyFile:       cfg.KeyFile,
			PrivateKeyHex: env(cfg.PrivateKeyEnv),
			Passphrase:    env(cfg.PassphraseEnv),
		}, backend), nil
	case "rpc":
		return NewRPCWallet(desc, cfg.URL, backend), nil
	case "walletconnect":
		return NewRelay(desc, KindWalletConnectRelay, cfg.URL, backend)
	case "coinbase":
		return NewRelay(desc, KindCoinbaseRelay, cfg.URL, backend)
	case "deeplink":
		return NewDeepLink(desc, cfg.TONAddress, cfg.Text)
	default:
		return nil, errors.Newf("connector %q: unknown type %q", cfg.ID, cfg.Type)
	}
}

func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.ordered))
	for _, c := range r.ordered {
		out = append(out, c.Descriptor())
	}
	return out
}

func (r *Registry) Get(id string) (Connector, bool) {
	c, ok := r.byID[strings.ToLower(strings.TrimSpace(id))]
	return c, ok
}
