// Package fs defines the filesystem surface the guardian operates on:
// enumerate, stat creation time, copy, delete and create directories.
// The default implementation is backed by afero so tests can run in memory.
package fs

import (
	"time"
)

type FileInfo struct {
	Path    string
	Size    int64
	MTime   time.Time
	Created time.Time
	IsDir   bool
}

type FS interface {
	Stat(path string) (FileInfo, error)
	Exists(path string) (bool, error)
	ReadDir(path string) ([]FileInfo, error)
	// CopyFile copies src to dst in one attempt. dst must not exist; if the
	// copy fails after dst was created, dst is removed again.
	CopyFile(src, dst string) error
	AppendFile(path string, data []byte) error
	MkdirAll(path string) error
	Remove(path string) error
}
