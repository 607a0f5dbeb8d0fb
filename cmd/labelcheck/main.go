// Command labelcheck loads annotation files, prints a summary of their
// shapes, and optionally renders the overlay onto the image.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"labelall/internal/annotation"
	"labelall/internal/app"
	"labelall/internal/config"
	"labelall/internal/render"
	"labelall/internal/scene"
	"labelall/pkg/geometry"
)

func main() {
	out := flag.String("render", "", "Directory to write <name>.png overlays into")
	zoom := flag.Float64("zoom", 1.0, "Zoom factor for rendered overlays")
	verbose := flag.Bool("v", false, "Log codec warnings")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Println("Usage: labelcheck [-render <dir>] [-zoom <f>] [-v] <file.json|image>...")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		annotation.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})))
	}

	failed := 0
	for _, path := range flag.Args() {
		if err := check(cfg, path, *out, *zoom); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed++
		}
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d files failed\n", failed, flag.NArg())
		os.Exit(1)
	}
}

func check(cfg *config.Config, path, outDir string, zoom float64) error {
	state := app.NewState(cfg)
	if err := state.Open(path); err != nil {
		return err
	}

	shapes := state.Registry.Shapes()
	fmt.Printf("=== %s ===\n", path)
	fmt.Printf("image: %s (%dx%d)\n", state.Image.Path, state.Image.Width(), state.Image.Height())
	fmt.Printf("shapes: %d\n", len(shapes))
	fmt.Println(summarize(shapes))
	bounds := state.Image.Bounds()
	for _, s := range shapes {
		if !within(bounds, state.Registry.Centers(s)) {
			fmt.Printf("warning: %s %q extends past the image\n", s.Kind, s.DisplayName())
		}
	}

	if outDir == "" {
		return nil
	}
	st := render.DefaultStyle()
	st.FillAlpha = cfg.FillAlpha
	st.EdgeWidth = cfg.EdgeWidth
	st.IconSize = cfg.IconSize
	img, err := render.Draw(state.Image.Image, zoom, render.BuildFrame(state.Registry, nil), st)
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".png"
	f, err := os.Create(filepath.Join(outDir, name))
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode overlay: %w", err)
	}
	fmt.Printf("overlay: %s\n", f.Name())
	return nil
}

// within reports whether the bounding box of pts lies inside bounds.
func within(bounds geometry.Rect, pts []geometry.Point2D) bool {
	bb := geometry.BoundingBox(pts)
	return bounds.Contains(geometry.Point2D{X: bb.X, Y: bb.Y}) &&
		bounds.Contains(geometry.Point2D{X: bb.X + bb.Width, Y: bb.Y + bb.Height})
}

// summarize counts shapes per kind and label, e.g. "rectangle box: 2".
func summarize(shapes []*scene.Shape) string {
	counts := make(map[string]int)
	for _, s := range shapes {
		counts[s.Kind.String()+" "+s.Label]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s: %d\n", k, counts[k])
	}
	return strings.TrimRight(b.String(), "\n")
}
