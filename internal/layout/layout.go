// Package layout reads and writes office floor plans as JSON documents.
// Files ending in .zst are zstd compressed.
package layout

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"officesim-backend/internal/geom"
	"officesim-backend/internal/office"
)

// Version is the document version written by this package.
const Version = 1

// ErrSchema is returned for documents that do not match the layout schema.
var ErrSchema = errors.New("layout does not match schema")

//go:embed schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("layout.schema.json", schemaJSON)

// Rect is a rectangle given by its center, as the editor stores it.
type Rect struct {
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Document is the on-disk form of an office.Layout.
type Document struct {
	Version  int     `json:"version"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Entrance Rect    `json:"entrance"`
	Desks    []Rect  `json:"desks"`
	Spaces   []Rect  `json:"spaces"`
}

// FromOffice converts a layout into its document form.
func FromOffice(l office.Layout) Document {
	c := l.Entrance.Center()
	doc := Document{
		Version:  Version,
		Width:    l.Width,
		Height:   l.Height,
		Entrance: Rect{X: c.X, Y: c.Y, Width: l.Entrance.Dx(), Height: l.Entrance.Dy()},
		Desks:    make([]Rect, 0, len(l.Desks)),
		Spaces:   make([]Rect, 0, len(l.Spaces)),
	}
	for _, d := range l.Desks {
		doc.Desks = append(doc.Desks, Rect{ID: d.ID, Name: d.Name, X: d.Center.X, Y: d.Center.Y, Width: d.Width, Height: d.Height})
	}
	for _, s := range l.Spaces {
		doc.Spaces = append(doc.Spaces, Rect{ID: s.ID, Name: s.Name, X: s.Center.X, Y: s.Center.Y, Width: s.Width, Height: s.Height})
	}
	return doc
}

// Office converts the document back into a layout.
func (d Document) Office() office.Layout {
	l := office.Layout{
		Width:    d.Width,
		Height:   d.Height,
		Entrance: geom.RectFromCenter(geom.Pt(d.Entrance.X, d.Entrance.Y), d.Entrance.Width, d.Entrance.Height),
	}
	for _, r := range d.Desks {
		l.Desks = append(l.Desks, office.DeskSpec{ID: r.ID, Name: r.Name, Center: geom.Pt(r.X, r.Y), Width: r.Width, Height: r.Height})
	}
	for _, r := range d.Spaces {
		l.Spaces = append(l.Spaces, office.SpaceSpec{ID: r.ID, Name: r.Name, Center: geom.Pt(r.X, r.Y), Width: r.Width, Height: r.Height})
	}
	return l
}

// Encode writes l as indented JSON.
func Encode(w io.Writer, l office.Layout) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromOffice(l)); err != nil {
		return fmt.Errorf("failed to encode layout: %w", err)
	}
	return nil
}

// Decode reads a JSON layout, checks it against the schema and then against
// the engine's own placement rules.
func Decode(r io.Reader) (office.Layout, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return office.Layout{}, fmt.Errorf("failed to read layout: %w", err)
	}
	return Parse(raw)
}

// Parse is Decode for an in-memory document.
func Parse(raw []byte) (office.Layout, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return office.Layout{}, fmt.Errorf("failed to parse layout: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return office.Layout{}, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return office.Layout{}, fmt.Errorf("failed to parse layout: %w", err)
	}
	l := doc.Office()
	if err := l.Validate(); err != nil {
		return office.Layout{}, err
	}
	return l, nil
}

// Save writes l to path, compressing it when path ends in ".zst".
func Save(path string, l office.Layout) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if !compressed(path) {
		return Encode(f, l)
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc)
	if err := Encode(bw, l); err != nil {
		enc.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Load reads a layout written by Save.
func Load(path string) (office.Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return office.Layout{}, err
	}
	defer f.Close()

	if !compressed(path) {
		return Decode(f)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		return office.Layout{}, err
	}
	defer dec.Close()
	return Decode(dec)
}

// Compress returns a zstd compressed copy of a JSON layout document.
func Compress(l office.Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, l); err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(buf.Bytes(), nil), nil
}

func compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}
