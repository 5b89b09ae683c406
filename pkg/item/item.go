// Package item defines the images that get ranked on a board.
package item

import (
	"fmt"
	"strings"
)

// Payload is an immutable handle to the image bytes of an item. The bytes
// themselves live in the persistence blob space under the item ID.
type Payload struct {
	Name      string `json:"name,omitempty"`
	MediaType string `json:"mediaType,omitempty"`
	Size      int64  `json:"size,omitempty"`
	Digest    string `json:"digest,omitempty"`
}

// Item is a single rankable image. Identity is by ID.
type Item struct {
	ID      string  `json:"id"`
	Payload Payload `json:"payload"`
}

// New returns an item with the given id and payload handle.
func New(id string, payload Payload) Item {
	return Item{ID: id, Payload: payload}
}

// Valid reports whether the item can be placed on a board.
func (i Item) Valid() bool {
	return strings.TrimSpace(i.ID) != ""
}

// Label returns a short human name for the item.
func (i Item) Label() string {
	if i.Payload.Name != "" {
		return i.Payload.Name
	}
	return i.ID
}

// ShortID returns the first eight characters of the id, enough to address an
// item from the command line.
func (i Item) ShortID() string {
	if len(i.ID) <= 8 {
		return i.ID
	}
	return i.ID[:8]
}

func (i Item) String() string {
	return fmt.Sprintf("%s (%s)", i.Label(), i.ShortID())
}

// IDs returns the ids of items in order.
func IDs(items []Item) []string {
	ids := make([]string, len(items))
	for n, it := range items {
		ids[n] = it.ID
	}
	return ids
}

// Clone returns a copy of the slice that does not share a backing array.
func Clone(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
