package config

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	utilsconfig "github.com/quantumauth-io/quantum-go-utils/config"
	"github.com/spf13/viper"

	"github.com/nwr-dao/endorse-client/internal/endorse-client/chains"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/connectors"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/constants"
)

//go:embed config.yaml
var EmbeddedConfigYAML []byte

const envPrefix = "ENDORSE"

type ClientSettings struct {
	LocalHost      string
	Port           string
	AllowedOrigins []string
	FallbackURL    string
}

type ContractSettings struct {
	Address               string
	ConfirmTimeoutSeconds int
}

type NetworkSettings struct {
	chains.AllChainsConfig    `mapstructure:",squash"`
	HeaderRefreshMilliseconds int `mapstructure:"headerRefreshMilliseconds"`
}

type SessionCacheSettings struct {
	Enabled   bool
	SecretEnv string
}

type Config struct {
	ClientSettings ClientSettings
	Contract       ContractSettings
	Networks       NetworkSettings
	Connectors     []connectors.Config
	SessionCache   SessionCacheSettings
}

// Load reads the embedded defaults, merges the first config.yaml found in the
// search paths, then applies ENDORSE_* environment overrides.
func Load() (*Config, error) {
	home, _ := os.UserHomeDir()
	paths := []string{
		filepath.Join(home, ".config", constants.AppName),
		filepath.Join(home, "config"),
		".",
	}
	return LoadFrom(paths, "")
}

// LoadFrom is Load with explicit search paths. A non-empty file overrides them.
func LoadFrom(paths []string, file string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(EmbeddedConfigYAML)); err != nil {
		return nil, errors.Wrap(err, "read embedded config")
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.MergeInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", file)
		}
	} else {
		user, found, err := readSearchPaths(paths)
		if err != nil {
			return nil, err
		}
		if found {
			if err := v.MergeConfigMap(user); err != nil {
				return nil, errors.Wrap(err, "merge config")
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// searchMu serializes use of the global viper instance the shared parser reads into.
var searchMu sync.Mutex

// readSearchPaths parses the first config.yaml found in paths with the shared
// config parser and returns its settings. Unprefixed environment overrides the
// parser binds are included.
func readSearchPaths(paths []string) (map[string]any, bool, error) {
	searchMu.Lock()
	defer searchMu.Unlock()

	viper.Reset()
	defer viper.Reset()

	if _, err := utilsconfig.ParseConfig[Config](paths); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, "read config")
	}
	return viper.AllSettings(), true, nil
}

func (c *Config) normalize() error {
	c.Networks.Normalize()
	if c.Networks.ActiveNetwork == "" {
		return errors.New("Networks.activeNetwork is empty")
	}
	if _, ok := c.Networks.Networks[c.Networks.ActiveNetwork]; !ok {
		return errors.Newf("active network %q not found in config", c.Networks.ActiveNetwork)
	}

	addr := strings.TrimSpace(c.Contract.Address)
	if addr == "" {
		addr = constants.DefaultContractAddress
	}
	if !common.IsHexAddress(addr) {
		return errors.Newf("invalid contract address %q", c.Contract.Address)
	}
	c.Contract.Address = common.HexToAddress(addr).Hex()

	if strings.TrimSpace(c.ClientSettings.FallbackURL) == "" {
		c.ClientSettings.FallbackURL = constants.BrowserFallbackURL
	}
	return nil
}

func (c *Config) ContractAddress() common.Address {
	return common.HexToAddress(c.Contract.Address)
}

func (c *Config) ChainConfig() chains.ChainConfig {
	return chains.ChainConfig{
		Chains:               &c.Networks.AllChainsConfig,
		DefaultActiveNetwork: c.Networks.ActiveNetwork,
		PreferredRPCName:     c.Networks.ActiveRPC,
		DurationBetweenGetLatestHeaderRequestsMilliseconds: c.Networks.HeaderRefreshMilliseconds,
	}
}
