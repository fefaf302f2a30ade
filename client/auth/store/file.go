package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/scy"
	_ "github.com/viant/scy/kms/blowfish"
)

// FileStorage persists values as a JSON snapshot rewritten on every change.
// It backs the durable tier. When an encryption key is set the snapshot is
// stored through scy (for example "blowfish://default").
type FileStorage struct {
	mu      sync.RWMutex
	url     string
	key     string
	fs      afs.Service
	secrets *scy.Service
	values  map[string]string
}

type FileOption func(*FileStorage)

// WithEncryptionKey encrypts the snapshot at rest with the given scy key.
func WithEncryptionKey(key string) FileOption {
	return func(f *FileStorage) {
		f.key = key
	}
}

// WithFileSystem sets the afs service used for plain snapshots.
func WithFileSystem(fs afs.Service) FileOption {
	return func(f *FileStorage) {
		f.fs = fs
	}
}

type fileSnapshot struct {
	Values map[string]string `json:"values"`
}

// NewFileStorage creates a storage persisted at location (a path or an afs URL)
// and loads any existing snapshot.
func NewFileStorage(location string, options ...FileOption) (*FileStorage, error) {
	URL, err := normalizeURL(location)
	if err != nil {
		return nil, err
	}
	ret := &FileStorage{url: URL, fs: afs.New(), values: map[string]string{}}
	for _, opt := range options {
		opt(ret)
	}
	if ret.key != "" {
		ret.secrets = scy.New()
	}
	if err = ret.load(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to load credentials from %v: %w", ret.url, err)
	}
	return ret, nil
}

// URL returns the snapshot location.
func (f *FileStorage) URL() string { return f.url }

func (f *FileStorage) Get(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	return v, ok
}

func (f *FileStorage) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if prev, ok := f.values[key]; ok && prev == value {
		return nil
	}
	f.values[key] = value
	return f.save(context.Background())
}

func (f *FileStorage) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[key]; !ok {
		return nil
	}
	delete(f.values, key)
	return f.save(context.Background())
}

func (f *FileStorage) save(ctx context.Context) error {
	snap := &fileSnapshot{Values: f.values}
	if f.secrets != nil {
		resource := scy.NewResource(snap, f.url, f.key)
		return f.secrets.Store(ctx, scy.NewSecret(snap, resource))
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return f.fs.Upload(ctx, f.url, file.DefaultFileOsMode, bytes.NewReader(data))
}

func (f *FileStorage) load(ctx context.Context) error {
	if ok, _ := f.fs.Exists(ctx, f.url); !ok {
		return nil
	}
	var snap *fileSnapshot
	if f.secrets != nil {
		secret, err := f.secrets.Load(ctx, scy.NewResource(&fileSnapshot{}, f.url, f.key))
		if err != nil {
			return err
		}
		loaded, ok := secret.Target.(*fileSnapshot)
		if !ok {
			return fmt.Errorf("unexpected secret type: %T", secret.Target)
		}
		snap = loaded
	} else {
		data, err := f.fs.DownloadWithURL(ctx, f.url)
		if err != nil {
			return err
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		snap = &fileSnapshot{}
		if err = json.Unmarshal(data, snap); err != nil {
			return err
		}
	}
	for k, v := range snap.Values {
		f.values[k] = v
	}
	return nil
}

func normalizeURL(location string) (string, error) {
	if location == "" {
		return "", fmt.Errorf("storage location was empty")
	}
	if strings.Contains(location, "://") {
		return location, nil
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(abs), nil
}
