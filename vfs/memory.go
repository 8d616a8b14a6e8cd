package vfs

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
)

// MemoryDirectory serves game files held in memory.
type MemoryDirectory struct {
	name  string
	files map[string][]byte
}

func NewMemoryDirectory(name string, files map[string][]byte) *MemoryDirectory {
	return &MemoryDirectory{name: name, files: files}
}

func (md *MemoryDirectory) Init(parent Directory) {}
func (md *MemoryDirectory) Name() string          { return md.name }
func (md *MemoryDirectory) IsDirectory() bool     { return true }

func (md *MemoryDirectory) List() ([]string, error) {
	names := make([]string, 0, len(md.files))
	for n := range md.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (md *MemoryDirectory) GetElement(name string) (Element, error) {
	for n, data := range md.files {
		if strings.EqualFold(n, name) {
			return &MemoryFile{name: n, data: data}, nil
		}
	}
	return nil, fmt.Errorf("'%s' not found in '%s'", name, md.name)
}

type MemoryFile struct {
	name   string
	data   []byte
	opened bool
}

func (mf *MemoryFile) Init(parent Directory) {}
func (mf *MemoryFile) Name() string          { return mf.name }
func (mf *MemoryFile) IsDirectory() bool     { return false }
func (mf *MemoryFile) Size() int64           { return int64(len(mf.data)) }
func (mf *MemoryFile) Open() error           { mf.opened = true; return nil }
func (mf *MemoryFile) Close() error          { mf.opened = false; return nil }

func (mf *MemoryFile) Reader() (*io.SectionReader, error) {
	if !mf.opened {
		return nil, fmt.Errorf("First you need to open file")
	}
	return io.NewSectionReader(bytes.NewReader(mf.data), 0, mf.Size()), nil
}

func (mf *MemoryFile) ReadAt(b []byte, off int64) (int, error) {
	return bytes.NewReader(mf.data).ReadAt(b, off)
}
