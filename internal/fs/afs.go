package fs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// AferoFS is the concrete FS over an afero.Fs.
type AferoFS struct {
	fs afero.Fs
}

// New returns an FS backed by the local OS filesystem.
func New() *AferoFS {
	return NewAfero(afero.NewOsFs())
}

func NewAfero(f afero.Fs) *AferoFS {
	return &AferoFS{fs: f}
}

func (a *AferoFS) Stat(path string) (FileInfo, error) {
	st, err := a.fs.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return fromOS(path, st), nil
}

func (a *AferoFS) Exists(path string) (bool, error) {
	_, err := a.fs.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (a *AferoFS) ReadDir(path string) ([]FileInfo, error) {
	entries, err := afero.ReadDir(a.fs, path)
	if err != nil {
		return nil, err
	}
	out := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, fromOS(filepath.Join(path, e.Name()), e))
	}
	return out, nil
}

func (a *AferoFS) CopyFile(src, dst string) error {
	return copyOnce(a.fs, src, dst)
}

func (a *AferoFS) AppendFile(path string, data []byte) error {
	f, err := a.fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (a *AferoFS) MkdirAll(path string) error {
	return a.fs.MkdirAll(path, 0o755)
}

func (a *AferoFS) Remove(path string) error {
	return a.fs.Remove(path)
}

func fromOS(path string, info os.FileInfo) FileInfo {
	return FileInfo{
		Path:    path,
		Size:    info.Size(),
		MTime:   info.ModTime(),
		Created: createdAt(path, info),
		IsDir:   info.IsDir(),
	}
}

var _ FS = (*AferoFS)(nil)
