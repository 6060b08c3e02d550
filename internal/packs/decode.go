package packs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

type wireCollection struct {
	White *[]string        `json:"white"`
	Black *[]BlackCard     `json:"black"`
	Packs *map[string]Pack `json:"packs"`
}

// Decode reads a compact pack collection and validates it.
func Decode(r io.Reader) (*Collection, error) {
	var wire wireCollection
	dec := json.NewDecoder(r)
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if wire.White == nil {
		return nil, fmt.Errorf("%w: missing white cards", ErrMalformed)
	}
	if wire.Black == nil {
		return nil, fmt.Errorf("%w: missing black cards", ErrMalformed)
	}
	if wire.Packs == nil {
		return nil, fmt.Errorf("%w: missing packs", ErrMalformed)
	}

	c := &Collection{White: *wire.White, Black: *wire.Black, Packs: *wire.Packs}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// DecodeBytes is Decode for an in-memory document.
func DecodeBytes(data []byte) (*Collection, error) {
	return Decode(bytes.NewReader(data))
}

// Encode serialises c in the compact format.
func Encode(c *Collection) ([]byte, error) {
	return json.Marshal(c)
}

// Validate checks that every pack index points into c's pools and that
// black cards ask for a sensible number of answers.
func (c *Collection) Validate() error {
	for i, b := range c.Black {
		if b.Pick < 0 {
			return fmt.Errorf("%w: black card %d has negative pick %d", ErrMalformed, i, b.Pick)
		}
	}
	for _, np := range ListPacks(c) {
		for _, i := range np.Pack.White {
			if i < 0 || i >= len(c.White) {
				return fmt.Errorf("pack %q white card %d: %w", np.Key, i, ErrIndexOutOfRange)
			}
		}
		for _, i := range np.Pack.Black {
			if i < 0 || i >= len(c.Black) {
				return fmt.Errorf("pack %q black card %d: %w", np.Key, i, ErrIndexOutOfRange)
			}
		}
	}
	return nil
}
