package vfs

import (
	"fmt"
	"io"
	"os"
	path_ "path"
	"strings"
)

type DirectoryDriver struct {
	path string
}

func (dd *DirectoryDriver) Init(parent Directory) {}

func (dd *DirectoryDriver) Name() string {
	return path_.Base(dd.path)
}

func (dd *DirectoryDriver) IsDirectory() bool {
	return true
}

func (dd *DirectoryDriver) List() ([]string, error) {
	if entries, err := os.ReadDir(dd.path); err != nil {
		return nil, fmt.Errorf("Error getting directory '%s' info: %v", dd.path, err)
	} else {
		result := make([]string, 0, len(entries))
		for _, e := range entries {
			result = append(result, e.Name())
		}
		return result, nil
	}
}

// resolve finds name in the directory. Release tables use the names printed on
// the original media, so a case-insensitive match is accepted.
func (dd *DirectoryDriver) resolve(name string) (string, error) {
	exact := path_.Join(dd.path, name)
	if _, err := os.Stat(exact); err == nil {
		return exact, nil
	}
	names, err := dd.List()
	if err != nil {
		return "", err
	}
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return path_.Join(dd.path, n), nil
		}
	}
	return "", fmt.Errorf("'%s' not found in '%s'", name, dd.path)
}

func (dd *DirectoryDriver) GetElement(name string) (Element, error) {
	newPath, err := dd.resolve(name)
	if err != nil {
		return nil, err
	}
	if s, err := os.Stat(newPath); err != nil {
		return nil, fmt.Errorf("Stat error: %v", err)
	} else {
		var e Element
		if s.IsDir() {
			e = NewDirectoryDriver(newPath)
		} else {
			e = NewDirectoryDriverFile(newPath)
		}
		e.Init(dd)
		return e, nil
	}
}

func (dd *DirectoryDriver) Path() string {
	return dd.path
}

func NewDirectoryDriver(path string) *DirectoryDriver {
	return &DirectoryDriver{path: path}
}

type DirectoryDriverFile struct {
	path string
	f    *os.File
}

func NewDirectoryDriverFile(path string) *DirectoryDriverFile {
	return &DirectoryDriverFile{
		path: path,
	}
}

func (ddf *DirectoryDriverFile) Init(parent Directory) {}

func (ddf *DirectoryDriverFile) Name() string {
	return path_.Base(ddf.path)
}

func (ddf *DirectoryDriverFile) IsDirectory() bool {
	return false
}

func (ddf *DirectoryDriverFile) Size() int64 {
	if stat, err := os.Stat(ddf.path); err != nil {
		return 0
	} else {
		return stat.Size()
	}
}

func (ddf *DirectoryDriverFile) Open() error {
	if ddf.f != nil {
		return fmt.Errorf("File already opened")
	}
	f, err := os.Open(ddf.path)
	if err != nil {
		return fmt.Errorf("os.Open('%s'): %v", ddf.path, err)
	}
	ddf.f = f
	return nil
}

func (ddf *DirectoryDriverFile) Close() error {
	if ddf.f != nil {
		if err := ddf.f.Close(); err != nil {
			return fmt.Errorf("os.File.Close(): %v", err)
		}
		ddf.f = nil
	}
	return nil
}

func (ddf *DirectoryDriverFile) Reader() (*io.SectionReader, error) {
	if ddf.f == nil {
		return nil, fmt.Errorf("First you need to open file")
	} else {
		return io.NewSectionReader(ddf.f, 0, ddf.Size()), nil
	}
}

func (ddf *DirectoryDriverFile) ReadAt(b []byte, off int64) (n int, err error) {
	if ddf.f == nil {
		return 0, fmt.Errorf("First you need to open file")
	} else {
		return ddf.f.ReadAt(b, off)
	}
}
