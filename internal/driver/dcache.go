package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"wl/internal/diag"
	"wl/internal/lexer"
	"wl/internal/project"
	"wl/internal/source"
	"wl/internal/token"
)

// Current schema version - increment when TokenPayload format changes
const tokenCacheSchemaVersion uint16 = 1

// TokenCache stores token streams on disk, keyed by CacheKey.
// Safe for concurrent use.
type TokenCache struct {
	mu  sync.RWMutex
	dir string
}

// TokenPayload is the cached result of tokenizing one file.
type TokenPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path  string
	Items []CachedItem
	Diags []CachedDiag
}

type CachedPos struct {
	Offset int
	Line   int
	Col    int
}

type CachedItem struct {
	Kind  int32
	Tag   string
	Start CachedPos
	Len   int
}

type CachedNote struct {
	Start CachedPos
	Len   int
	Msg   string
}

type CachedDiag struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    CachedPos
	Len      int
	Notes    []CachedNote
}

// OpenTokenCache opens the cache at dir, creating it if needed.
// An empty dir selects $XDG_CACHE_HOME/wl (or ~/.cache/wl).
func OpenTokenCache(dir string) (*TokenCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "wl")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &TokenCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *TokenCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// CacheKey derives the key of a file from its content hash and every
// option that changes the token stream.
func CacheKey(content [32]byte, opts lexer.Options) project.Digest {
	words := "<default>"
	if opts.Keywords != nil {
		words = strings.Join(opts.Keywords, "\x00")
	}
	return project.Combine(project.Digest(content),
		[]byte(strconv.Itoa(int(tokenCacheSchemaVersion))),
		[]byte{0},
		[]byte(strconv.Itoa(opts.MaxTokenLength)),
		[]byte{0},
		[]byte(words),
	)
}

func (c *TokenCache) pathFor(key project.Digest) string {
	hexKey := key.String()
	// two-level fan-out keeps directories small
	return filepath.Join(c.dir, "tokens", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the cache.
func (c *TokenCache) Put(key project.Digest, payload *TokenPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	payload.Schema = tokenCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// atomic replace
	return os.Rename(f.Name(), p)
}

// Get reads a payload. A missing entry or one written by another schema
// version is a miss, not an error.
func (c *TokenCache) Get(key project.Digest, out *TokenPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	if out.Schema != tokenCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll removes every cached entry.
func (c *TokenCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// rename first so a concurrent reader never sees a half-deleted tree
	old := c.dir + ".old-" + time.Now().Format("20060102150405.000000000")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

func toCachedPos(p source.Pos) CachedPos {
	return CachedPos{Offset: p.Offset, Line: p.Line, Col: p.Col}
}

func (p CachedPos) pos() source.Pos {
	return source.NewPos(p.Offset, p.Line, p.Col)
}

// newTokenPayload converts a fresh tokenize result for caching.
func newTokenPayload(path string, items []lexer.Item, bag *diag.Bag) *TokenPayload {
	payload := &TokenPayload{
		Schema: tokenCacheSchemaVersion,
		Path:   path,
		Items:  make([]CachedItem, len(items)),
	}
	for i, it := range items {
		payload.Items[i] = CachedItem{
			Kind:  int32(it.Token.Kind),
			Tag:   it.Token.Tag,
			Start: toCachedPos(it.Range.Start),
			Len:   it.Range.Len,
		}
	}
	for _, d := range bag.Items() {
		cd := CachedDiag{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    toCachedPos(d.Primary.Start),
			Len:      d.Primary.Len,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Start: toCachedPos(n.Range.Start), Len: n.Range.Len, Msg: n.Msg})
		}
		payload.Diags = append(payload.Diags, cd)
	}
	return payload
}

// restore rebuilds items and fills bag. Diagnostics carry path, which may
// differ from the path the entry was written under.
func (p *TokenPayload) restore(path string, bag *diag.Bag) []lexer.Item {
	items := make([]lexer.Item, len(p.Items))
	for i, it := range p.Items {
		items[i] = lexer.Item{
			Token: token.Token{Kind: token.Kind(it.Kind), Tag: it.Tag},
			Range: source.NewRange(it.Start.pos(), it.Len),
		}
	}
	for _, cd := range p.Diags {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Path:     path,
			Primary:  source.NewRange(cd.Start.pos(), cd.Len),
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{Range: source.NewRange(n.Start.pos(), n.Len), Msg: n.Msg})
		}
		bag.Add(d)
	}
	return items
}
