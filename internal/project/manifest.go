package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a loaded wl.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the wl.toml layout.
type Config struct {
	Package PackageConfig `toml:"package"`
	Lexer   LexerConfig   `toml:"lexer"`
	Cache   CacheConfig   `toml:"cache"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type LexerConfig struct {
	// Keywords replaces the default keyword set when present.
	Keywords       []string `toml:"keywords"`
	MaxTokenLength int      `toml:"max_token_length"`
	NFC            bool     `toml:"nfc"`
	// NormalizeNewlines drops a BOM and turns CRLF into LF on load.
	NormalizeNewlines bool `toml:"normalize_newlines"`
	StrictUTF8        bool `toml:"strict_utf8"`
	// Extensions selects source files in directory mode, e.g. [".wl"].
	Extensions []string `toml:"extensions"`
}

type CacheConfig struct {
	Enabled bool `toml:"enabled"`
	// Dir is relative to the project root; empty means the user cache dir.
	Dir string `toml:"dir"`
}

// DefaultExtensions is used when [lexer].extensions is absent.
var DefaultExtensions = []string{".wl"}

// DefaultConfig is what a directory without wl.toml gets.
func DefaultConfig() Config {
	return Config{
		Lexer: LexerConfig{Extensions: append([]string(nil), DefaultExtensions...)},
	}
}

// LoadManifest finds and parses the wl.toml governing startDir.
// ok is false when there is none.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig parses and validates a single manifest file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if cfg.Lexer.MaxTokenLength < 0 {
		return Config{}, fmt.Errorf("%s: [lexer].max_token_length must not be negative", path)
	}
	for _, w := range cfg.Lexer.Keywords {
		if strings.TrimSpace(w) == "" {
			return Config{}, fmt.Errorf("%s: [lexer].keywords contains an empty word", path)
		}
	}
	for i, ext := range cfg.Lexer.Extensions {
		if !strings.HasPrefix(ext, ".") {
			cfg.Lexer.Extensions[i] = "." + ext
		}
	}
	if len(cfg.Lexer.Extensions) == 0 {
		cfg.Lexer.Extensions = append([]string(nil), DefaultExtensions...)
	}
	return cfg, nil
}

// CacheDir resolves [cache].dir against the project root.
// Empty means the caller should use its default location.
func (m *Manifest) CacheDir() string {
	if m == nil || m.Config.Cache.Dir == "" {
		return ""
	}
	if filepath.IsAbs(m.Config.Cache.Dir) {
		return m.Config.Cache.Dir
	}
	return filepath.Join(m.Root, filepath.FromSlash(m.Config.Cache.Dir))
}

// DefaultManifest renders the wl.toml written by `wl init`.
func DefaultManifest(name string) string {
	return fmt.Sprintf(`# wl project manifest
[package]
name = %q

[lexer]
# keywords = ["fn", "let", "if", "else"]
max_token_length = 65536
nfc = false
normalize_newlines = false
strict_utf8 = false
extensions = [".wl"]

[cache]
enabled = false
dir = ".wl-cache"
`, name)
}
