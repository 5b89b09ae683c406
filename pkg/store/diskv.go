package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/tierit/pkg/board"
)

// ErrNoBoard is returned by Load before anything has been saved.
var ErrNoBoard = errors.New("store: no saved board")

// ErrNoPayload is returned for an item without stored bytes.
var ErrNoPayload = errors.New("store: no payload")

// Persistence defines the persistence contract for the board and the image
// bytes its items refer to.
type Persistence interface {
	// Load returns the saved board, repaired by board.Sanitize, along with
	// every repair that was needed.
	Load(ctx context.Context) (board.Board, []board.Violation, error)
	Save(ctx context.Context, b board.Board) error
	PutPayload(id string, data []byte) error
	Payload(id string) ([]byte, error)
	DeletePayload(id string) error
	Watch(ctx context.Context) (<-chan Event, error)
}

const (
	boardDir    = "board"
	boardFile   = "document"
	blobDir     = "blobs"
	tempDir     = ".tmp"
	documentKey = boardDir + "/" + boardFile
)

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		TempDir:           filepath.Join(basePath, tempDir),
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      8 * 1024 * 1024, // 8MB
	}), basePath: basePath, now: time.Now}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
	now      func() time.Time
}

func (p *persistence) Load(ctx context.Context) (board.Board, []board.Violation, error) {
	if err := ctx.Err(); err != nil {
		return board.Board{}, nil, err
	}
	if !p.d.Has(documentKey) {
		return board.Board{}, nil, ErrNoBoard
	}
	// Other processes write the document, so skip the cache.
	rc, err := p.d.ReadStream(documentKey, true)
	if err != nil {
		return board.Board{}, nil, fmt.Errorf("store: read board: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return board.Board{}, nil, fmt.Errorf("store: read board: %w", err)
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		return board.Board{}, nil, err
	}
	st, blobs := doc.State()
	for id, blob := range blobs {
		if err := p.PutPayload(id, blob); err != nil {
			return board.Board{}, nil, err
		}
	}
	b, violations := board.Sanitize(st)
	return b, violations, nil
}

func (p *persistence) Save(ctx context.Context, b board.Board) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := NewDocument(b, p.now()).Encode()
	if err != nil {
		return fmt.Errorf("store: encode board: %w", err)
	}
	if err := p.d.Write(documentKey, data); err != nil {
		return fmt.Errorf("store: write board: %w", err)
	}
	return nil
}

func (p *persistence) PutPayload(id string, data []byte) error {
	key, err := blobKey(id)
	if err != nil {
		return err
	}
	if err := p.d.Write(key, data); err != nil {
		return fmt.Errorf("store: write payload %q: %w", id, err)
	}
	return nil
}

func (p *persistence) Payload(id string) ([]byte, error) {
	key, err := blobKey(id)
	if err != nil {
		return nil, err
	}
	if !p.d.Has(key) {
		return nil, fmt.Errorf("%w for %q", ErrNoPayload, id)
	}
	data, err := p.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("store: read payload %q: %w", id, err)
	}
	return data, nil
}

func (p *persistence) DeletePayload(id string) error {
	key, err := blobKey(id)
	if err != nil {
		return err
	}
	if !p.d.Has(key) {
		return nil
	}
	if err := p.d.Erase(key); err != nil {
		return fmt.Errorf("store: erase payload %q: %w", id, err)
	}
	return nil
}

func blobKey(id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", errors.New("store: item id required")
	}
	return blobDir + "/" + encodeID(id), nil
}

// encodeID makes item ids safe as file names.
func encodeID(id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id))
}

func decodeID(s string) string {
	id, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return ""
	}
	return string(id)
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.Join(append(append([]string{}, pathKey.Path...), pathKey.FileName), "/")
}

// ensureLayout creates the directories the watcher needs to exist up front.
func (p *persistence) ensureLayout() error {
	for _, dir := range []string{p.basePath, filepath.Join(p.basePath, boardDir), filepath.Join(p.basePath, blobDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("store: ensure %s: %w", dir, err)
		}
	}
	return nil
}
