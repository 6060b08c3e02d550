package packs

import (
	"fmt"
	"strings"
)

// ResolvePack dereferences the named pack's indices against c's pools.
func (c *Collection) ResolvePack(name string) ([]string, []BlackCard, error) {
	p, ok := c.Packs[name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrPackNotFound, name)
	}

	whites := make([]string, 0, len(p.White))
	for _, i := range p.White {
		if i < 0 || i >= len(c.White) {
			return nil, nil, fmt.Errorf("pack %q white card %d: %w", name, i, ErrIndexOutOfRange)
		}
		whites = append(whites, c.White[i])
	}

	blacks := make([]BlackCard, 0, len(p.Black))
	for _, i := range p.Black {
		if i < 0 || i >= len(c.Black) {
			return nil, nil, fmt.Errorf("pack %q black card %d: %w", name, i, ErrIndexOutOfRange)
		}
		blacks = append(blacks, c.Black[i])
	}

	return whites, blacks, nil
}

// Resolve concatenates the cards of every selection in order. Cards that
// appear in more than one selected pack are kept once per pack.
func Resolve(selections ...Selection) (Cards, error) {
	var cards Cards
	for _, sel := range selections {
		if sel.Collection == nil {
			return Cards{}, fmt.Errorf("%w: selection %q has no collection", ErrCollectionNotFound, sel.PackName)
		}
		whites, blacks, err := sel.Collection.ResolvePack(sel.PackName)
		if err != nil {
			return Cards{}, err
		}
		cards.White = append(cards.White, whites...)
		cards.Black = append(cards.Black, blacks...)
	}
	return cards, nil
}

// ParseRawSelections parses a comma separated list of "collection:pack"
// pairs. A pair without a colon is rejected.
func ParseRawSelections(s string) ([]RawSelection, error) {
	var out []RawSelection
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		collection, pack, ok := strings.Cut(part, ":")
		if !ok || collection == "" || pack == "" {
			return nil, fmt.Errorf("invalid pack selection %q, want collection:pack", part)
		}
		out = append(out, RawSelection{Collection: collection, Pack: pack})
	}
	return out, nil
}

// String renders the selection in the form accepted by ParseRawSelections.
func (r RawSelection) String() string {
	return r.Collection + ":" + r.Pack
}
