// Package blobstore stores the binaries behind uploaded course files.
//
// The metadata row only keeps an opaque key; the bytes live in a Store,
// either a directory on disk or an S3-compatible bucket.
package blobstore

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a key has no stored object.
var ErrNotFound = errors.New("blobstore: object not found")

// Object describes a stored binary.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Store is the binary storage collaborator.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]Object, error)
}

const maxNameLen = 120

// NewKey returns a collision-free key for an uploaded file name:
// a random uuid prefix followed by the sanitized original name.
func NewKey(originalName string) string {
	return uuid.NewString() + "-" + SanitizeName(originalName)
}

// SanitizeName reduces a client-supplied file name to a safe single path
// element.
func SanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	out := strings.TrimLeft(b.String(), ".")
	if out == "" {
		out = "file"
	}
	if len(out) > maxNameLen {
		ext := filepath.Ext(out)
		if len(ext) > 16 {
			ext = ""
		}
		out = truncateRunes(out[:len(out)-len(ext)], maxNameLen-len(ext)) + ext
	}
	return out
}

// truncateRunes cuts s to at most n bytes without splitting a rune.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 && !utf8.ValidString(s) {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}
	return s
}
