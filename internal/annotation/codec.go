package annotation

import (
	"errors"
	"fmt"
	"path/filepath"

	"labelall/internal/scene"
	"labelall/internal/version"
	"labelall/pkg/geometry"
)

var (
	ErrUnknownShapeType = errors.New("unknown shape_type")
	ErrInvalidShape     = errors.New("invalid shape")
	ErrNoImage          = errors.New("annotation has no image data or path")
)

// ImageSource is the image a document annotates, threaded explicitly
// through save and load.
type ImageSource struct {
	Path   string // absolute path of the image file
	Data   []byte // original file bytes
	Width  int
	Height int
}

// SnapshotOptions controls how a registry is turned into a File.
type SnapshotOptions struct {
	// LabelPath is where the file will be written; ImagePath is stored
	// relative to its directory when possible.
	LabelPath string
	Image     ImageSource
	// EmbedImage stores the image bytes in imageData.
	EmbedImage bool
	// Base supplies document flags and unknown keys from the loaded file.
	Base *File
}

// Snapshot converts the finished shapes of reg into a File. The shape under
// construction is not included.
func Snapshot(reg *scene.Registry, opts SnapshotOptions) *File {
	f := &File{
		Version:     version.FormatVersion,
		Flags:       map[string]bool{},
		ImagePath:   relImagePath(opts.LabelPath, opts.Image.Path),
		ImageWidth:  opts.Image.Width,
		ImageHeight: opts.Image.Height,
	}
	if opts.EmbedImage {
		f.ImageData = opts.Image.Data
	}
	if opts.Base != nil {
		if opts.Base.Flags != nil {
			f.Flags = opts.Base.Flags
		}
		f.Extra = opts.Base.Extra
	}

	for _, s := range reg.Shapes() {
		rec := ShapeRecord{
			Label:     s.Label,
			GroupID:   s.GroupID,
			ShapeType: s.Kind.String(),
			Flags:     s.Flags,
			Extra:     s.Extra,
		}
		for _, c := range reg.Centers(s) {
			rec.Points = append(rec.Points, [2]float64{c.X, c.Y})
		}
		f.Shapes = append(f.Shapes, rec)
	}
	return f
}

func relImagePath(labelPath, imagePath string) string {
	if labelPath == "" || imagePath == "" {
		return imagePath
	}
	rel, err := filepath.Rel(filepath.Dir(labelPath), imagePath)
	if err != nil {
		return imagePath
	}
	return filepath.ToSlash(rel)
}

// Specs validates every shape of f and converts them for the registry.
// Any invalid shape rejects the whole file.
func Specs(f *File) ([]scene.ShapeSpec, error) {
	specs := make([]scene.ShapeSpec, 0, len(f.Shapes))
	for i, rec := range f.Shapes {
		kind, err := scene.ParseKind(rec.ShapeType)
		if err != nil {
			Logger().Error("rejecting annotation", "shape", i, "shape_type", rec.ShapeType)
			return nil, fmt.Errorf("shape %d (%q): %w %q", i, rec.Label, ErrUnknownShapeType, rec.ShapeType)
		}
		if !kind.ValidCount(len(rec.Points)) {
			return nil, fmt.Errorf("shape %d (%q): %s with %d points: %w",
				i, rec.Label, kind, len(rec.Points), ErrInvalidShape)
		}
		spec := scene.ShapeSpec{
			Label:   rec.Label,
			GroupID: rec.GroupID,
			Kind:    kind,
			Flags:   rec.Flags,
			Extra:   rec.Extra,
		}
		for _, p := range rec.Points {
			spec.Points = append(spec.Points, geometry.Point2D{X: p[0], Y: p[1]})
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
