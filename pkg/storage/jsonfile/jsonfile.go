// Package jsonfile stores domain lists as pretty-printed JSON arrays of host
// names on the local filesystem.
package jsonfile

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"mediatrace/pkg/domain"
	"mediatrace/pkg/storage"
)

const (
	fileMode        = 0o644
	dirMode         = 0o755
	tempFilePattern = ".domains-*.json.tmp"
	indent          = 2
)

// Options hold the file paths of each list. An empty path disables
// persistence of that kind.
type Options struct {
	// VideoPath is the file holding confirmed video domains.
	VideoPath string
	// AudioPath is the file holding confirmed audio domains.
	AudioPath string
}

// Files implements storage.Storage on top of JSON files.
type Files struct {
	video *List
	audio *List
}

var _ storage.Storage = (*Files)(nil)

// New creates the file storage described by options.
func New(options Options) *Files {
	f := &Files{}
	if options.VideoPath != "" {
		f.video = NewList(options.VideoPath)
	}
	if options.AudioPath != "" {
		f.audio = NewList(options.AudioPath)
	}

	return f
}

// Domains implements storage.Storage.
func (f *Files) Domains(kind domain.Kind) storage.DomainStore {
	var l *List
	switch kind {
	case domain.KindVideo:
		l = f.video
	case domain.KindAudio:
		l = f.audio
	}
	if l == nil {
		// avoid returning a typed nil inside the interface
		return nil
	}

	return l
}

// Close implements storage.Storage. Files hold no open handles between calls.
func (f *Files) Close() error { return nil }

// List is a single JSON domain list file. It is safe for concurrent use.
type List struct {
	path string
	mu   sync.RWMutex
}

var _ storage.DomainStore = (*List)(nil)

// NewList creates a list stored at path.
func NewList(path string) *List {
	return &List{path: filepath.Clean(path)}
}

// Path returns the file path of the list.
func (l *List) Path() string { return l.path }

// Load implements storage.DomainStore. A missing or blank file yields an
// empty list; a file that is not a JSON array of strings is an error.
func (l *List) Load(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	data, err := os.ReadFile(l.path)
	l.mu.RUnlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}

		return nil, fmt.Errorf("could not read domain list %q: %w", l.path, err)
	}

	domains, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("could not parse domain list %q: %w", l.path, err)
	}

	return domains, nil
}

// Save implements storage.DomainStore. The file is replaced atomically through
// a temporary file in the same directory.
func (l *List) Save(ctx context.Context, domains []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := Encode(storage.Normalize(domains))

	l.mu.Lock()
	defer l.mu.Unlock()

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("could not create directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("could not write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, fileMode); err != nil {
		return fmt.Errorf("could not chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		return fmt.Errorf("could not replace domain list %q: %w", l.path, err)
	}

	return nil
}

// Encode renders domains as a pretty-printed JSON array.
func Encode(domains []string) []byte {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	e.SetIdent(indent)
	e.ArrStart()
	for _, d := range domains {
		e.Str(d)
	}
	e.ArrEnd()

	out := make([]byte, 0, len(e.Bytes())+1)
	out = append(out, e.Bytes()...)

	return append(out, '\n')
}

// Decode parses a JSON array of strings. Duplicates are collapsed.
func Decode(data []byte) ([]string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []string{}, nil
	}

	var domains []string
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		s, err := d.Str()
		if err != nil {
			return errors.Wrap(err, "domain entry")
		}
		domains = append(domains, s)

		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode domain array")
	}

	return storage.Normalize(domains), nil
}
