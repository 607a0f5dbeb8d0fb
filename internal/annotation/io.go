package annotation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"labelall/internal/version"
)

// Suffix is the extension of annotation files.
const Suffix = ".json"

// LabelPath returns the annotation path that sits next to an image.
func LabelPath(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + Suffix
}

// IsLabelFile reports whether path names an annotation file.
func IsLabelFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Suffix)
}

// Read loads and parses an annotation file. Shape types are not validated
// here; see Specs.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read annotation: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse annotation %s: %w", path, err)
	}
	checkVersion(path, f.Version)
	return &f, nil
}

func checkVersion(path, v string) {
	if v == "" {
		Logger().Warn("annotation file has no version", "path", path)
		return
	}
	if major(v) != major(version.FormatVersion) {
		Logger().Warn("annotation file may be incompatible",
			"path", path, "version", v, "current", version.FormatVersion)
	}
}

func major(v string) string {
	m, _, _ := strings.Cut(v, ".")
	return m
}

// ImageBytes returns the image a file annotates: the embedded data when
// present, otherwise the file at imagePath resolved against the directory
// of labelPath.
func ImageBytes(labelPath string, f *File) ([]byte, string, error) {
	imgPath := ResolveImagePath(labelPath, f.ImagePath)
	if len(f.ImageData) > 0 {
		return f.ImageData, imgPath, nil
	}
	if f.ImagePath == "" {
		return nil, "", ErrNoImage
	}
	data, err := os.ReadFile(imgPath)
	if err != nil {
		return nil, "", fmt.Errorf("read image for %s: %w", labelPath, err)
	}
	return data, imgPath, nil
}

// ResolveImagePath makes imagePath absolute relative to the label file.
func ResolveImagePath(labelPath, imagePath string) string {
	if imagePath == "" {
		return ""
	}
	p := filepath.FromSlash(imagePath)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(labelPath), p)
}

// Write stores f at path. The document is written to a temporary file in
// the same directory and renamed into place, so a failed save leaves any
// previous file untouched.
func Write(path string, f *File) (err error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode annotation: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".labelall-*"+Suffix)
	if err != nil {
		Logger().Error("save aborted", "path", path, "err", err)
		return fmt.Errorf("save annotation: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
			Logger().Error("save aborted", "path", path, "err", err)
		}
	}()

	if err = tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("save annotation: %w", err)
	}
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save annotation: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("save annotation: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save annotation: %w", err)
	}
	return nil
}

// IsRejected reports whether err means the file content itself is unusable.
func IsRejected(err error) bool {
	return errors.Is(err, ErrUnknownShapeType) || errors.Is(err, ErrInvalidShape)
}
