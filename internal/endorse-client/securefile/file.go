// Package securefile stores small JSON documents encrypted at rest.
// Argon2id derives the key from a secret and XChaCha20-Poly1305 seals the payload.
package securefile

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// ErrInvalidSecretOrCorrupt is returned when a file cannot be opened. It is
// deliberately generic.
var ErrInvalidSecretOrCorrupt = errors.New("invalid secret or corrupted file")

const envelopeVersion = 1

// Envelope is the on-disk layout.
type Envelope struct {
	Version int `json:"version"`

	ArgonTime    uint32 `json:"argon_time"`
	ArgonMemory  uint32 `json:"argon_memory_kib"`
	ArgonThreads uint8  `json:"argon_threads"`
	SaltB64      string `json:"salt_b64"`

	NonceB64 string `json:"nonce_b64"`
	CTB64    string `json:"ct_b64"`
}

type KDF struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

var DefaultKDF = KDF{Time: 2, Memory: 64 * 1024, Threads: 1}

type Options struct {
	KDF           KDF
	FilePerm      os.FileMode
	DirectoryPerm os.FileMode
	// AAD binds the ciphertext to a purpose; it must match on read.
	AAD []byte
}

func (o Options) withDefaults() Options {
	if o.KDF.Time == 0 {
		o.KDF = DefaultKDF
	}
	if o.FilePerm == 0 {
		o.FilePerm = 0o600
	}
	if o.DirectoryPerm == 0 {
		o.DirectoryPerm = 0o700
	}
	return o
}

// WriteEncryptedJSON seals v under secret and replaces path atomically.
func WriteEncryptedJSON[T any](path string, v T, secret []byte, opts Options) error {
	o := opts.withDefaults()
	if len(secret) == 0 {
		return errors.New("securefile: empty secret")
	}

	if err := os.MkdirAll(filepath.Dir(path), o.DirectoryPerm); err != nil {
		return errors.Wrapf(err, "mkdir %s", filepath.Dir(path))
	}

	plain, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal json")
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return errors.Wrap(err, "rand salt")
	}
	aead, err := chacha20poly1305.NewX(deriveKey(secret, salt, o.KDF))
	if err != nil {
		return errors.Wrap(err, "aead")
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return errors.Wrap(err, "rand nonce")
	}

	env := Envelope{
		Version:      envelopeVersion,
		ArgonTime:    o.KDF.Time,
		ArgonMemory:  o.KDF.Memory,
		ArgonThreads: o.KDF.Threads,
		SaltB64:      base64.StdEncoding.EncodeToString(salt),
		NonceB64:     base64.StdEncoding.EncodeToString(nonce),
		CTB64:        base64.StdEncoding.EncodeToString(aead.Seal(nil, nonce, plain, o.AAD)),
	}
	b, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal envelope")
	}
	return AtomicWriteFile(path, b, o.FilePerm)
}

// ReadEncryptedJSON opens a file written by WriteEncryptedJSON.
func ReadEncryptedJSON[T any](path string, secret []byte, opts Options) (T, error) {
	var zero T
	o := opts.withDefaults()
	if len(secret) == 0 {
		return zero, errors.New("securefile: empty secret")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return zero, errors.Wrap(err, "read file")
	}

	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return zero, errors.Wrap(err, "unmarshal envelope")
	}
	if env.Version != envelopeVersion {
		return zero, errors.Newf("unsupported file version: %d", env.Version)
	}

	salt, err := base64.StdEncoding.DecodeString(env.SaltB64)
	if err != nil {
		return zero, errors.Wrap(err, "decode salt")
	}
	nonce, err := base64.StdEncoding.DecodeString(env.NonceB64)
	if err != nil {
		return zero, errors.Wrap(err, "decode nonce")
	}
	ct, err := base64.StdEncoding.DecodeString(env.CTB64)
	if err != nil {
		return zero, errors.Wrap(err, "decode ciphertext")
	}

	kdf := KDF{Time: env.ArgonTime, Memory: env.ArgonMemory, Threads: env.ArgonThreads}
	aead, err := chacha20poly1305.NewX(deriveKey(secret, salt, kdf))
	if err != nil {
		return zero, errors.Wrap(err, "aead")
	}
	if len(nonce) != aead.NonceSize() {
		return zero, ErrInvalidSecretOrCorrupt
	}
	plain, err := aead.Open(nil, nonce, ct, o.AAD)
	if err != nil {
		return zero, ErrInvalidSecretOrCorrupt
	}

	var out T
	if err := json.Unmarshal(plain, &out); err != nil {
		return zero, errors.Wrap(err, "unmarshal json")
	}
	return out, nil
}

func deriveKey(secret, salt []byte, kdf KDF) []byte {
	return argon2.IDKey(secret, salt, kdf.Time, kdf.Memory, kdf.Threads, chacha20poly1305.KeySize)
}

func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	_ = os.Remove(tmp)

	if err := os.WriteFile(tmp, data, perm); err != nil {
		return errors.Wrap(err, "write tmp")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "rename")
	}
	return nil
}

// StatePath returns <UserConfigDir>/<app>/<env?>/<filename>. ENDORSE_ENV
// selects a "local" or "develop" subfolder.
func StatePath(app, filename string) (string, error) {
	if app == "" || filename == "" {
		return "", errors.New("app and filename must not be empty")
	}
	envFolder, err := EnvFolder()
	if err != nil {
		return "", err
	}

	base := os.Getenv("SNAP_REAL_HOME")
	if base != "" {
		base = filepath.Join(base, ".config")
	} else if base, err = os.UserConfigDir(); err != nil {
		return "", errors.Wrap(err, "UserConfigDir")
	}

	dir := filepath.Join(base, app)
	if envFolder != "" {
		dir = filepath.Join(dir, envFolder)
	}
	return filepath.Join(dir, filename), nil
}

func EnvFolder() (string, error) {
	raw := strings.TrimSpace(os.Getenv("ENDORSE_ENV"))
	switch strings.ToLower(raw) {
	case "", "prod", "production":
		return "", nil
	case "local":
		return "local", nil
	case "dev", "develop", "development":
		return "develop", nil
	default:
		return "", errors.Newf("invalid ENDORSE_ENV %q (allowed: local, develop, empty)", raw)
	}
}
