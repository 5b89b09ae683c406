package store

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/tierit/pkg/board"
	"tableflip.dev/tierit/pkg/ingest"
	"tableflip.dev/tierit/pkg/item"
)

// DocumentVersion is the board document format written by this build.
const DocumentVersion = 1

// Document is the saved form of a board. Items may carry their payload bytes
// inline as a data URL; boards saved by the browser version of the tool do.
type Document struct {
	Version      int            `json:"version"`
	Tiers        []DocumentTier `json:"tiers"`
	LibraryItems []DocumentItem `json:"libraryItems"`
	SavedAt      time.Time      `json:"savedAt"`
}

// DocumentTier is a tier as saved.
type DocumentTier struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Color string         `json:"color"`
	Items []DocumentItem `json:"items"`
}

// DocumentItem is an item as saved.
type DocumentItem struct {
	ID      string        `json:"id"`
	Payload *item.Payload `json:"payload,omitempty"`
	URL     string        `json:"url,omitempty"`
}

// NewDocument captures b.
func NewDocument(b board.Board, now time.Time) Document {
	st := b.State()
	d := Document{
		Version:      DocumentVersion,
		Tiers:        make([]DocumentTier, 0, len(st.Tiers)),
		LibraryItems: documentItems(st.Library),
		SavedAt:      now.UTC(),
	}
	for _, t := range st.Tiers {
		d.Tiers = append(d.Tiers, DocumentTier{ID: t.ID, Name: t.Name, Color: t.Color, Items: documentItems(t.Items)})
	}
	return d
}

func documentItems(items []item.Item) []DocumentItem {
	out := make([]DocumentItem, len(items))
	for i, it := range items {
		p := it.Payload
		out[i] = DocumentItem{ID: it.ID, Payload: &p}
	}
	return out
}

// DecodeDocument parses a saved board. Unknown fields are ignored and the
// legacy "libraryImages" key is read when "libraryItems" is absent.
func DecodeDocument(data []byte) (Document, error) {
	var raw struct {
		Document
		LibraryImages []DocumentItem `json:"libraryImages"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("store: decode document: %w", err)
	}
	d := raw.Document
	if d.Version > DocumentVersion {
		return Document{}, fmt.Errorf("store: document version %d is newer than %d", d.Version, DocumentVersion)
	}
	if d.LibraryItems == nil {
		d.LibraryItems = raw.LibraryImages
	}
	return d, nil
}

// Encode renders the document as indented JSON.
func (d Document) Encode() ([]byte, error) {
	d.Version = DocumentVersion
	return json.MarshalIndent(d, "", "  ")
}

// Inline embeds every item's payload bytes as a data URL so the document can
// travel without the blob store.
func (d *Document) Inline(payload func(id string) ([]byte, error)) error {
	embed := func(items []DocumentItem) error {
		for i := range items {
			data, err := payload(items[i].ID)
			if err != nil {
				return fmt.Errorf("store: inline %q: %w", items[i].ID, err)
			}
			mt := ""
			if items[i].Payload != nil {
				mt = items[i].Payload.MediaType
			}
			items[i].URL = dataURL(mt, data)
		}
		return nil
	}
	for i := range d.Tiers {
		if err := embed(d.Tiers[i].Items); err != nil {
			return err
		}
	}
	return embed(d.LibraryItems)
}

// State converts the document into board state plus any payload bytes that
// were carried inline. Inline payloads are re-described from their bytes.
// Items with an unreadable data URL keep their id and lose their payload.
func (d Document) State() (board.State, map[string][]byte) {
	blobs := map[string][]byte{}
	convert := func(in []DocumentItem) []item.Item {
		out := make([]item.Item, 0, len(in))
		for _, di := range in {
			it := item.Item{ID: strings.TrimSpace(di.ID)}
			if di.Payload != nil {
				it.Payload = *di.Payload
			}
			if di.URL != "" {
				if data, err := decodeDataURL(di.URL); err == nil {
					name := it.Payload.Name
					if name == "" {
						name = it.ID
					}
					if p, err := ingest.Describe(name, data); err == nil {
						it.Payload = p
						if _, seen := blobs[it.ID]; !seen {
							blobs[it.ID] = data
						}
					}
				}
			}
			out = append(out, it)
		}
		return out
	}

	// Tiers go first: board.Sanitize keeps the first copy of a repeated id
	// in that order, and the stored bytes must match it.
	st := board.State{Tiers: make([]board.Tier, 0, len(d.Tiers))}
	for _, t := range d.Tiers {
		st.Tiers = append(st.Tiers, board.Tier{ID: t.ID, Name: t.Name, Color: t.Color, Items: convert(t.Items)})
	}
	st.Library = convert(d.LibraryItems)
	return st, blobs
}

var errDataURL = errors.New("store: malformed data URL")

func dataURL(mediaType string, data []byte) string {
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func decodeDataURL(s string) ([]byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, errDataURL
	}
	meta, body, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, errDataURL
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: only base64 payloads are supported", errDataURL)
	}
	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errDataURL, err)
	}
	return data, nil
}
