// Package annotation reads and writes annotation files: one JSON document
// per image listing its labeled shapes.
package annotation

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// File is the on-disk annotation document.
type File struct {
	Version     string
	Flags       map[string]bool
	Shapes      []ShapeRecord
	ImagePath   string
	ImageData   []byte // raw image file bytes, nil when not embedded
	ImageHeight int
	ImageWidth  int

	// Extra holds unrecognized top-level keys, written back unchanged.
	Extra map[string]json.RawMessage
}

// ShapeRecord is one shape as stored on disk. Points are vertex centers.
type ShapeRecord struct {
	Label     string
	Points    [][2]float64
	GroupID   *int
	ShapeType string
	Flags     map[string]bool

	Extra map[string]json.RawMessage
}

var fileKeys = []string{"version", "flags", "shapes", "imagePath", "imageData", "imageHeight", "imageWidth"}

var shapeKeys = []string{"label", "points", "group_id", "shape_type", "flags"}

type fileWire struct {
	Version     string          `json:"version"`
	Flags       map[string]bool `json:"flags"`
	Shapes      []ShapeRecord   `json:"shapes"`
	ImagePath   string          `json:"imagePath"`
	ImageData   string          `json:"imageData"`
	ImageHeight int             `json:"imageHeight"`
	ImageWidth  int             `json:"imageWidth"`
}

type shapeWire struct {
	Label     string          `json:"label"`
	Points    [][2]float64    `json:"points"`
	GroupID   *int            `json:"group_id"`
	ShapeType string          `json:"shape_type"`
	Flags     map[string]bool `json:"flags"`
}

// MarshalJSON writes the known keys in their conventional order followed by
// any extra keys sorted by name.
func (f File) MarshalJSON() ([]byte, error) {
	w := fileWire{
		Version:     f.Version,
		Flags:       nonNilFlags(f.Flags),
		Shapes:      f.Shapes,
		ImagePath:   f.ImagePath,
		ImageHeight: f.ImageHeight,
		ImageWidth:  f.ImageWidth,
	}
	if w.Shapes == nil {
		w.Shapes = []ShapeRecord{}
	}
	if len(f.ImageData) > 0 {
		w.ImageData = base64.StdEncoding.EncodeToString(f.ImageData)
	}
	b, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return appendExtra(b, f.Extra)
}

// UnmarshalJSON reads a document, keeping unknown keys in Extra.
func (f *File) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out File
	if err := optional(raw, "version", &out.Version); err != nil {
		return err
	}
	if err := optional(raw, "flags", &out.Flags); err != nil {
		return err
	}
	if err := optional(raw, "shapes", &out.Shapes); err != nil {
		return err
	}
	if err := optional(raw, "imagePath", &out.ImagePath); err != nil {
		return err
	}
	var enc *string
	if err := optional(raw, "imageData", &enc); err != nil {
		return err
	}
	if enc != nil && *enc != "" {
		b, err := base64.StdEncoding.DecodeString(*enc)
		if err != nil {
			return fmt.Errorf("imageData: %w", err)
		}
		out.ImageData = b
	}
	if err := optional(raw, "imageHeight", &out.ImageHeight); err != nil {
		return err
	}
	if err := optional(raw, "imageWidth", &out.ImageWidth); err != nil {
		return err
	}
	out.Extra = leftovers(raw, fileKeys)
	*f = out
	return nil
}

// MarshalJSON writes label, points, group_id, shape_type and flags, then
// any extra keys.
func (s ShapeRecord) MarshalJSON() ([]byte, error) {
	w := shapeWire{
		Label:     s.Label,
		Points:    s.Points,
		GroupID:   s.GroupID,
		ShapeType: s.ShapeType,
		Flags:     nonNilFlags(s.Flags),
	}
	if w.Points == nil {
		w.Points = [][2]float64{}
	}
	b, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return appendExtra(b, s.Extra)
}

// UnmarshalJSON reads one shape. A missing shape_type means polygon and an
// empty-string group_id means none.
func (s *ShapeRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := ShapeRecord{ShapeType: "polygon"}
	if err := optional(raw, "label", &out.Label); err != nil {
		return err
	}
	var pts [][]float64
	if err := optional(raw, "points", &pts); err != nil {
		return err
	}
	for i, p := range pts {
		if len(p) != 2 {
			return fmt.Errorf("point %d has %d coordinates: %w", i, len(p), ErrInvalidShape)
		}
		out.Points = append(out.Points, [2]float64{p[0], p[1]})
	}
	if g, ok := raw["group_id"]; ok && !bytes.Equal(bytes.TrimSpace(g), []byte(`""`)) {
		if err := json.Unmarshal(g, &out.GroupID); err != nil {
			return fmt.Errorf("group_id: %w", err)
		}
	}
	if err := optional(raw, "shape_type", &out.ShapeType); err != nil {
		return err
	}
	if err := optional(raw, "flags", &out.Flags); err != nil {
		return err
	}
	out.Extra = leftovers(raw, shapeKeys)
	*s = out
	return nil
}

func optional(raw map[string]json.RawMessage, key string, dst any) error {
	v, ok := raw[key]
	if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func leftovers(raw map[string]json.RawMessage, known []string) map[string]json.RawMessage {
	var extra map[string]json.RawMessage
	for k, v := range raw {
		if slices.Contains(known, k) {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = v
	}
	return extra
}

// appendExtra splices extra keys, sorted, before the closing brace of obj.
func appendExtra(obj []byte, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return obj, nil
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	b.Write(obj[:len(obj)-1])
	for _, k := range keys {
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		v := extra[k]
		if !json.Valid(v) {
			return nil, fmt.Errorf("extra key %s: invalid JSON", k)
		}
		b.WriteByte(',')
		b.Write(kb)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

func nonNilFlags(m map[string]bool) map[string]bool {
	if m == nil {
		return map[string]bool{}
	}
	return m
}
