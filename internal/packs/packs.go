// Package packs models card pack collections in the compact JSON Against
// Humanity format and resolves named pack selections into flat card lists.
//
// A Collection holds shared pools of white and black cards; each Pack refers
// into those pools by index. Collections are treated as immutable once
// decoded.
package packs

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrPackNotFound is returned when a selection names a pack its
	// collection does not contain.
	ErrPackNotFound = errors.New("pack not found")

	// ErrCollectionNotFound is returned when a raw selection names a
	// collection that has not been loaded.
	ErrCollectionNotFound = errors.New("pack collection not found")

	// ErrMalformed is returned when pack data does not match the expected
	// shape.
	ErrMalformed = errors.New("malformed pack collection")

	// ErrIndexOutOfRange is returned when a pack references a card index
	// outside its collection's pools. It wraps ErrMalformed.
	ErrIndexOutOfRange = fmt.Errorf("%w: card index out of range", ErrMalformed)
)

// BlackCard is a prompt card. Pick is the number of white cards a player
// submits in response.
type BlackCard struct {
	Text string `json:"text"`
	Pick int    `json:"pick"`
}

// Pack is a named subset of a Collection's card pools.
type Pack struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Official    bool   `json:"official"`
	White       []int  `json:"white"`
	Black       []int  `json:"black"`
}

// Collection is a set of packs sharing white and black card pools.
type Collection struct {
	White []string        `json:"white"`
	Black []BlackCard     `json:"black"`
	Packs map[string]Pack `json:"packs"`
}

// NamedPack pairs a pack with its key in Collection.Packs.
type NamedPack struct {
	Key  string
	Pack Pack
}

// ListPacks returns the packs in c ordered by key.
func ListPacks(c *Collection) []NamedPack {
	out := make([]NamedPack, 0, len(c.Packs))
	for key, p := range c.Packs {
		out = append(out, NamedPack{Key: key, Pack: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Selection picks one pack out of a loaded collection.
type Selection struct {
	PackName   string
	Collection *Collection
}

// RawSelection names a pack by collection name and pack key, as it arrives
// from a URL or a config file.
type RawSelection struct {
	Collection string `json:"packCollection"`
	Pack       string `json:"pack"`
}

// Cards is the flattened result of resolving one or more selections.
type Cards struct {
	White []string
	Black []BlackCard
}
