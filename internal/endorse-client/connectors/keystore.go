package connectors

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/nwr-dao/endorse-client/internal/endorse-client/chains"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/helpers"
)

type KeystoreConfig struct {
	// KeyFile is a go-ethereum keystore v3 JSON file.
	KeyFile string
	// PrivateKeyHex takes precedence over KeyFile.
	PrivateKeyHex string
	// Passphrase for KeyFile; prompted on the terminal when empty.
	Passphrase string
}

// Keystore signs in-process with a locally held key.
type Keystore struct {
	desc    Descriptor
	cfg     KeystoreConfig
	backend BackendSource
	prompt  func(string) ([]byte, error)
}

func NewKeystore(desc Descriptor, cfg KeystoreConfig, backend BackendSource) *Keystore {
	desc.Kind = KindInjected
	desc.Flags |= FlagInPageSigner
	return &Keystore{desc: desc, cfg: cfg, backend: backend, prompt: helpers.PromptPassword}
}

func (k *Keystore) Descriptor() Descriptor { return k.desc }

func (k *Keystore) Connect(ctx context.Context) (Provider, error) {
	key, err := k.loadKey()
	if err != nil {
		return nil, errors.Wrapf(err, "connector %s", k.desc.ID)
	}
	backend, err := k.backend.ActiveBackend(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "chain backend")
	}
	return &keyProvider{backend: backend, signer: &keySigner{key: key}}, nil
}

func (k *Keystore) loadKey() (*ecdsa.PrivateKey, error) {
	if raw := strings.TrimSpace(k.cfg.PrivateKeyHex); raw != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(helpers.NormalizeHex0x(raw), "0x"))
		if err != nil {
			return nil, errors.Wrap(err, "parse private key")
		}
		return key, nil
	}

	if strings.TrimSpace(k.cfg.KeyFile) == "" {
		return nil, errors.New("no key configured")
	}
	keyJSON, err := os.ReadFile(k.cfg.KeyFile)
	if err != nil {
		return nil, errors.Wrap(err, "read keystore file")
	}

	passphrase := []byte(k.cfg.Passphrase)
	if len(passphrase) == 0 {
		passphrase, err = k.prompt("Keystore passphrase: ")
		if err != nil {
			return nil, err
		}
	}
	defer helpers.ZeroBytes(passphrase)

	decrypted, err := keystore.DecryptKey(keyJSON, string(passphrase))
	if err != nil {
		return nil, errors.Wrap(err, "decrypt keystore")
	}
	return decrypted.PrivateKey, nil
}

type keyProvider struct {
	backend chains.Backend
	signer  *keySigner
}

func (p *keyProvider) Backend() chains.Backend { return p.backend }

func (p *keyProvider) Signer(context.Context) (Signer, error) { return p.signer, nil }

func (p *keyProvider) ChainID(ctx context.Context) (*big.Int, error) {
	return p.backend.ChainID(ctx)
}

// Close drops the key reference; the backend belongs to the chain service.
func (p *keyProvider) Close() error {
	p.signer.key = nil
	return nil
}

type keySigner struct {
	key *ecdsa.PrivateKey
}

func (s *keySigner) Address() common.Address {
	if s.key == nil {
		return common.Address{}
	}
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

func (s *keySigner) TransactOpts(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error) {
	if s.key == nil {
		return nil, errors.New("signer closed")
	}
	opts, err := bind.NewKeyedTransactorWithChainID(s.key, chainID)
	if err != nil {
		return nil, errors.Wrap(err, "keyed transactor")
	}
	opts.Context = ctx
	return opts, nil
}
