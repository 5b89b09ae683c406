// Package ingest turns image files into board items and their payload bytes.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"tableflip.dev/tierit/pkg/item"
)

// MaxSize is the largest payload accepted, in bytes.
const MaxSize = 32 << 20

var (
	// ErrNotImage is returned for content that does not sniff as an image.
	ErrNotImage = errors.New("ingest: not an image")
	// ErrTooLarge is returned for content over MaxSize.
	ErrTooLarge = errors.New("ingest: payload too large")
	// ErrEmpty is returned for zero length content.
	ErrEmpty = errors.New("ingest: empty payload")
)

// Blob is an item together with the bytes its payload describes.
type Blob struct {
	Item item.Item
	Data []byte
}

// NewID returns a fresh random item id.
func NewID() string {
	return uuid.NewString()
}

// Describe sniffs data and builds the payload handle for it. Only images are
// accepted.
func Describe(name string, data []byte) (item.Payload, error) {
	if len(data) == 0 {
		return item.Payload{}, fmt.Errorf("%w: %s", ErrEmpty, name)
	}
	if len(data) > MaxSize {
		return item.Payload{}, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, name, len(data))
	}
	mt := mimetype.Detect(data)
	if !isImage(mt) {
		return item.Payload{}, fmt.Errorf("%w: %s is %s", ErrNotImage, name, mt.String())
	}
	sum := sha256.Sum256(data)
	return item.Payload{
		Name:      name,
		MediaType: mediaType(mt),
		Size:      int64(len(data)),
		Digest:    "sha256:" + hex.EncodeToString(sum[:]),
	}, nil
}

// Bytes makes a new item with a fresh id from in-memory content.
func Bytes(name string, data []byte) (Blob, error) {
	p, err := Describe(name, data)
	if err != nil {
		return Blob{}, err
	}
	return Blob{Item: item.New(NewID(), p), Data: data}, nil
}

// Reader reads r fully and makes a new item from it.
func Reader(name string, r io.Reader) (Blob, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return Blob{}, fmt.Errorf("ingest: read %s: %w", name, err)
	}
	return Bytes(name, data)
}

// File reads the file at path and makes a new item named after its base name.
func File(path string) (Blob, error) {
	f, err := os.Open(path)
	if err != nil {
		return Blob{}, fmt.Errorf("ingest: %w", err)
	}
	defer f.Close()
	return Reader(filepath.Base(path), f)
}

// Progress is told after every file how many of total have been processed.
type Progress func(done, total int)

// Result reports the outcome of a batch.
type Result struct {
	Blobs   []Blob
	Skipped int
	Errors  []error
}

// Files ingests every path in order. Failures are collected per file and do
// not stop the batch; cancellation does.
func Files(ctx context.Context, paths []string, progress Progress) (Result, error) {
	res := Result{Blobs: make([]Blob, 0, len(paths))}
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		b, err := File(path)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, err)
		} else {
			res.Blobs = append(res.Blobs, b)
		}
		if progress != nil {
			progress(i+1, len(paths))
		}
	}
	return res, nil
}

func isImage(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return true
		}
	}
	return false
}

// mediaType drops parameters such as charset from the detected type.
func mediaType(mt *mimetype.MIME) string {
	s := mt.String()
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
