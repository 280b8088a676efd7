package snapshot

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// Archive keeps the raw HTML snapshot behind every accepted capture, keyed
// by capture ID, so a page can be re-extracted after pipeline fixes without
// visiting the quiz again.
type Archive interface {
	Put(key string, r io.Reader) error
	Get(key string) (io.ReadCloser, error)
}

type FSArchive struct{ base string }

func NewFSArchive(base string) (*FSArchive, error) {
	if base == "" {
		base = "./data/snapshots"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSArchive{base: base}, nil
}

func (a *FSArchive) Put(key string, r io.Reader) error {
	if key == "" {
		return errors.New("empty key")
	}
	dst := filepath.Join(a.base, filepath.Clean(key)+".html")
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, r)
	return err
}

func (a *FSArchive) Get(key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(a.base, filepath.Clean(key)+".html"))
}

// NopArchive discards snapshots; used when archiving is disabled.
type NopArchive struct{}

func (NopArchive) Put(string, io.Reader) error { return nil }
func (NopArchive) Get(string) (io.ReadCloser, error) {
	return nil, os.ErrNotExist
}
