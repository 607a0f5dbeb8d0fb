package app

import (
	"io/fs"
	"log"
	"path/filepath"

	"labelall/internal/image"
)

// ScanImages lists the supported images below root, descending into
// subdirectories, in lexical path order. Unreadable subdirectories are
// skipped.
func ScanImages(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Printf("Skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && image.IsSupportedFormat(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
