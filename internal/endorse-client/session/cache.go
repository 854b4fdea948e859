package session

import (
	"io/fs"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/nwr-dao/endorse-client/internal/endorse-client/constants"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/securefile"
)

// CacheEntry is what survives a restart. It only pre-selects the connector on
// the next connect; nothing in it authorizes anything.
type CacheEntry struct {
	Schema      int    `json:"schema"`
	ConnectorID string `json:"connectorId"`
	Address     string `json:"address"`
	ChainID     string `json:"chainId"`
}

type Cache struct {
	path   string
	secret []byte
	opts   securefile.Options
}

func NewCache(path string, secret []byte) *Cache {
	return &Cache{
		path:   path,
		secret: secret,
		opts: securefile.Options{
			FilePerm:      constants.FilePerm,
			DirectoryPerm: constants.DirectoryPerm,
			AAD:           []byte(constants.SessionCacheAAD),
		},
	}
}

func (c *Cache) Path() string { return c.path }

func (c *Cache) Save(s Session) error {
	if !s.Connected() {
		return errors.New("session cache: nothing to save")
	}
	entry := CacheEntry{
		Schema:      constants.SchemaV1,
		ConnectorID: s.ConnectorID,
		Address:     s.Address.Hex(),
	}
	if s.ChainID != nil {
		entry.ChainID = s.ChainID.String()
	}
	return securefile.WriteEncryptedJSON(c.path, entry, c.secret, c.opts)
}

// Load returns ok=false when no cache has been written yet.
func (c *Cache) Load() (CacheEntry, bool, error) {
	entry, err := securefile.ReadEncryptedJSON[CacheEntry](c.path, c.secret, c.opts)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return CacheEntry{}, false, nil
		}
		return CacheEntry{}, false, err
	}
	return entry, true, nil
}

func (c *Cache) Clear() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(err, "remove session cache")
	}
	return nil
}
