// Package catalog indexes the library of devotional texts that recitations
// refer to.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownStotra is returned when an id is not in the catalog and no title was given.
var ErrUnknownStotra = errors.New("unknown stotra")

//go:embed stotras.yaml
var builtin []byte

// Stotra is one library entry.
type Stotra struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Audio string `yaml:"audio,omitempty" json:"audio,omitempty"`
}

type file struct {
	Stotras []Stotra `yaml:"stotras"`
}

// Catalog is an ordered, id-indexed list of stotras.
type Catalog struct {
	stotras []Stotra
	byID    map[string]int
}

// Default returns the catalog bundled with the binary.
func Default() *Catalog {
	c, err := Parse(bytes.NewReader(builtin))
	if err != nil {
		panic(fmt.Sprintf("embedded stotras.yaml is invalid: %v", err))
	}
	return c
}

// Load reads a catalog file from disk.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a YAML catalog. Ids must be non-empty and unique.
func Parse(r io.Reader) (*Catalog, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]int, len(f.Stotras))}
	for _, s := range f.Stotras {
		if s.ID == "" || s.Title == "" {
			return nil, fmt.Errorf("catalog entry %q: id and title are required", s.ID)
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate stotra id %q", s.ID)
		}
		c.byID[s.ID] = len(c.stotras)
		c.stotras = append(c.stotras, s)
	}
	return c, nil
}

// All returns the stotras in catalog order.
func (c *Catalog) All() []Stotra {
	return append([]Stotra(nil), c.stotras...)
}

func (c *Catalog) Lookup(id string) (Stotra, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Stotra{}, false
	}
	return c.stotras[i], true
}

// Title picks the title to store with a recitation: an explicit title wins,
// otherwise the catalog entry's.
func (c *Catalog) Title(id, title string) (string, error) {
	if title != "" {
		return title, nil
	}
	s, ok := c.Lookup(id)
	if !ok {
		return "", fmt.Errorf("%w %q: pass a title", ErrUnknownStotra, id)
	}
	return s.Title, nil
}
