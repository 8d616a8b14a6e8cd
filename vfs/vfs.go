// Package vfs exposes the directories game data is read from.
package vfs

import (
	"io"
)

// must contain only metadata (filename) as long as possible
// (before List/Open/GetElement calls)
type Element interface {
	Init(parent Directory)
	Name() string
	IsDirectory() bool
}

type File interface {
	Element
	Size() int64
	Open() error
	Close() error
	Reader() (*io.SectionReader, error)
	ReadAt(b []byte, off int64) (n int, err error)
}

type Directory interface {
	Element
	List() ([]string, error)
	GetElement(name string) (Element, error)
}
