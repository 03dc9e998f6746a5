// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/invowk/varmerge/pkg/cueutil"
	"github.com/invowk/varmerge/pkg/varpkg"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// DefaultCacheSize is the number of decoded manifests a Loader keeps.
const DefaultCacheSize = 256

var (
	//go:embed manifest_schema.cue
	manifestSchema []byte

	// ErrEmptyManifest is returned for a manifest with no content.
	ErrEmptyManifest = errors.New("empty manifest")
)

type (
	// Loader reads and decodes manifests. Decoded manifests are cached by format
	// and content digest, so the same file read twice is decoded once.
	// A Loader is safe for concurrent use.
	Loader struct {
		maxFileSize int64
		readFile    func(string) ([]byte, error)
		cache       *lru.Cache[cacheKey, *Manifest]
	}

	// Option configures a Loader.
	Option func(*Loader)

	// LoadError reports a manifest that could not be read or decoded.
	LoadError struct {
		Op     string
		Path   string
		Format Format
		Err    error
	}

	cacheKey struct {
		format Format
		sum    [32]byte
	}
)

// WithMaxFileSize overrides cueutil.DefaultMaxFileSize for every format.
func WithMaxFileSize(size int64) Option {
	return func(l *Loader) { l.maxFileSize = size }
}

// WithCacheSize sets the number of cached manifests.
func WithCacheSize(size int) Option {
	return func(l *Loader) {
		if size > 0 {
			l.cache, _ = lru.New[cacheKey, *Manifest](size)
		}
	}
}

// WithReadFile replaces os.ReadFile, mostly for tests.
func WithReadFile(fn func(string) ([]byte, error)) Option {
	return func(l *Loader) {
		if fn != nil {
			l.readFile = fn
		}
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	cache, _ := lru.New[cacheKey, *Manifest](DefaultCacheSize)
	l := &Loader{
		maxFileSize: cueutil.DefaultMaxFileSize,
		readFile:    os.ReadFile,
		cache:       cache,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// LoadFile reads path and decodes it in the format implied by its name.
func (l *Loader) LoadFile(path string) (*Manifest, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, &LoadError{Op: "detect", Path: path, Err: err}
	}
	data, err := l.readFile(path)
	if err != nil {
		return nil, &LoadError{Op: "read", Path: path, Format: format, Err: err}
	}
	return l.Decode(data, path, format)
}

// Decode decodes a manifest. name is used in error messages only.
func (l *Loader) Decode(data []byte, name string, format Format) (*Manifest, error) {
	if err := cueutil.CheckFileSize(data, l.maxFileSize, name); err != nil {
		return nil, &LoadError{Op: "read", Path: name, Format: format, Err: err}
	}

	key := cacheKey{format: format, sum: blake3.Sum256(data)}
	if m, ok := l.cache.Get(key); ok {
		return m, nil
	}

	var (
		m   *Manifest
		err error
	)
	switch format {
	case FormatCUE:
		m, err = l.decodeCUE(data, name)
	case FormatTOML:
		m, err = decodeTOML(data)
	case FormatYAML:
		m, err = decodeYAML(data)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, &LoadError{Op: "decode", Path: name, Format: format, Err: err}
	}

	l.cache.Add(key, m)
	return m, nil
}

// Load reads a manifest and maps it to a package.
func (l *Loader) Load(path string) (*varpkg.Package, error) {
	m, err := l.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return ToPackage(m, path)
}

func (l *Loader) decodeCUE(data []byte, name string) (*Manifest, error) {
	result, err := cueutil.ParseAndDecode[Manifest](manifestSchema, data, "#Manifest",
		cueutil.WithFilename(name),
		cueutil.WithMaxFileSize(l.maxFileSize),
	)
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

func decodeTOML(data []byte) (*Manifest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyManifest
	}
	var m Manifest
	if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

func decodeYAML(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyManifest
		}
		return nil, err
	}
	return &m, nil
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("manifest %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("manifest %s %s (%s): %v", e.Op, e.Path, e.Format, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error { return e.Err }
