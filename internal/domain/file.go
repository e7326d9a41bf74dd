package domain

import (
	"bytes"
	"io"
	"mime"
	"os"
	"path/filepath"
	"reflect"
)

const DefaultContentType = "application/octet-stream"

// File is a raw file handle as picked by the user. Open may be called more than once.
type File interface {
	Name() string
	ContentType() string
	Open() (io.ReadCloser, error)
}

// Present reports whether f holds a usable handle. A typed nil pointer is absent.
func Present(f File) bool {
	if f == nil {
		return false
	}
	v := reflect.ValueOf(f)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return !v.IsNil()
	}
	return true
}

// ResolveContentType falls back to the extension and then to octet-stream.
func ResolveContentType(f File) string {
	if ct := f.ContentType(); ct != "" {
		return ct
	}
	if ct := mime.TypeByExtension(filepath.Ext(f.Name())); ct != "" {
		return ct
	}
	return DefaultContentType
}

type MemoryFile struct {
	name        string
	contentType string
	data        []byte
}

func NewMemoryFile(name, contentType string, data []byte) *MemoryFile {
	return &MemoryFile{name: name, contentType: contentType, data: data}
}

func (f *MemoryFile) Name() string        { return f.name }
func (f *MemoryFile) ContentType() string { return f.contentType }
func (f *MemoryFile) Size() int64         { return int64(len(f.data)) }

func (f *MemoryFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

type DiskFile struct {
	path        string
	contentType string
}

func NewDiskFile(path, contentType string) *DiskFile {
	return &DiskFile{path: path, contentType: contentType}
}

func (f *DiskFile) Name() string        { return filepath.Base(f.path) }
func (f *DiskFile) ContentType() string { return f.contentType }

func (f *DiskFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}
