// Package pathcache remembers the last spreadsheet, template and output
// directory between runs in a small JSON file.
package pathcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	// FileName is the cache file.
	FileName = "last_paths.json"
	// LegacyFileName is the older plain-text cache, removed on Load.
	LegacyFileName = "last_paths.txt"
)

// Keys stored in the cache.
const (
	KeyExcel    = "excel"
	KeyTemplate = "template"
	KeyOutput   = "output"
)

// ErrCorrupt is returned by Load when the cache file cannot be decoded.
var ErrCorrupt = errors.New("path cache is corrupt")

// FsFactory returns the filesystem the cache lives on. Tests replace it.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Paths maps a key to the remembered path.
type Paths map[string]string

// Cache reads and writes the cache file in Dir.
type Cache struct {
	Dir string
	fs  afero.Fs
}

// New returns a Cache rooted at dir.
func New(dir string) *Cache {
	return &Cache{Dir: dir, fs: FsFactory()}
}

func (c *Cache) path() string {
	return filepath.Join(c.Dir, FileName)
}

// Load returns the remembered paths. A missing file yields empty Paths and
// no error; a corrupt one yields empty Paths and ErrCorrupt.
func (c *Cache) Load() (Paths, error) {
	legacy := filepath.Join(c.Dir, LegacyFileName)
	if err := c.fs.Remove(legacy); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Paths{}, err
	}
	return c.read()
}

func (c *Cache) read() (Paths, error) {
	data, err := afero.ReadFile(c.fs, c.path())
	if errors.Is(err, fs.ErrNotExist) {
		return Paths{}, nil
	}
	if err != nil {
		return Paths{}, err
	}
	p := Paths{}
	if err := json.Unmarshal(data, &p); err != nil {
		return Paths{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	// a literal null decodes to a nil map
	if p == nil {
		p = Paths{}
	}
	return p, nil
}

// Save records path under key, keeping the other entries. A corrupt cache
// is replaced.
func (c *Cache) Save(key, path string) error {
	p, err := c.read()
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return err
	}
	p[key] = path
	data, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return err
	}
	if err := c.fs.MkdirAll(c.Dir, 0o755); err != nil {
		return err
	}
	return afero.WriteFile(c.fs, c.path(), data, 0o644)
}

// Clear forgets every path.
func (c *Cache) Clear() error {
	err := c.fs.Remove(c.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
