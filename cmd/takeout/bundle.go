package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/johnwards/takeout/internal/domain"
)

// loadBundle decodes an export bundle from path. "-" reads from stdin.
func loadBundle(path string, stdin io.Reader) (*domain.Bundle, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open bundle: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var b domain.Bundle
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("decode bundle %s: %w", path, err)
	}
	return &b, nil
}
