// Package app provides the open document, its events, and application-level helpers.
package app

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/google/uuid"

	"labelall/internal/annotation"
	"labelall/internal/config"
	"labelall/internal/image"
	"labelall/internal/scene"
	"labelall/pkg/geometry"
)

// ErrNoDocument is returned when an operation needs an open image.
var ErrNoDocument = errors.New("no image loaded")

// State holds the open document: image, annotation path and shape registry.
type State struct {
	mu sync.RWMutex

	Config *config.Config

	// Document
	Image     *image.Layer
	LabelPath string           // where Save writes
	File      *annotation.File // last file read or written; supplies flags and unknown keys
	Modified  bool

	// Registry is created once and reused for every document so that the
	// editor and panels can hold on to it.
	Registry *scene.Registry

	loading bool

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventDocumentLoaded EventType = iota
	EventDocumentSaved
	EventShapeAdded
	EventShapeRemoved
	EventShapeRenamed
	EventShapeVisibility
	EventShapesCleared
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates an empty document state.
func NewState(cfg *config.Config) *State {
	s := &State{
		Config:    cfg,
		Registry:  scene.NewRegistry(geometry.Rect{}, geometry.NewIcon(cfg.IconSize)),
		listeners: make(map[EventType][]EventListener),
	}
	s.Registry.Subscribe(s.onSceneChange)
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the document as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// IsModified reports whether there are unsaved changes.
func (s *State) IsModified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Modified
}

// HasDocument reports whether an image is open.
func (s *State) HasDocument() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Image != nil
}

func (s *State) onSceneChange(c scene.Change) {
	if s.loading {
		return
	}
	switch c.Type {
	case scene.ChangeAdded:
		s.Emit(EventShapeAdded, c.Shape)
		s.SetModified(true)
	case scene.ChangeRemoved:
		s.Emit(EventShapeRemoved, c.Shape)
		s.SetModified(true)
	case scene.ChangeRenamed:
		s.Emit(EventShapeRenamed, c.Shape)
		s.SetModified(true)
	case scene.ChangeVisibility:
		s.Emit(EventShapeVisibility, c.Shape)
	case scene.ChangeCleared:
		s.Emit(EventShapesCleared, nil)
	}
}

// Open loads either an image or an annotation file.
func (s *State) Open(path string) error {
	if annotation.IsLabelFile(path) {
		return s.OpenAnnotation(path)
	}
	return s.OpenImage(path)
}

// OpenImage loads an image and, when one sits next to it, its annotation file.
// On any error the current document is left as it was.
func (s *State) OpenImage(path string) error {
	layer, err := image.Load(path)
	if err != nil {
		log.Printf("Failed to load image %s: %v", path, err)
		return err
	}

	labelPath := annotation.LabelPath(path)
	var f *annotation.File
	var specs []scene.ShapeSpec
	if _, statErr := os.Stat(labelPath); statErr == nil {
		f, err = annotation.Read(labelPath)
		if err != nil {
			log.Printf("Failed to read annotation %s: %v", labelPath, err)
			return err
		}
		if specs, err = annotation.Specs(f); err != nil {
			log.Printf("Rejected annotation %s: %v", labelPath, err)
			return err
		}
	}

	s.commit(layer, labelPath, f, specs)
	return nil
}

// OpenAnnotation loads an annotation file and the image it refers to.
// On any error the current document is left as it was.
func (s *State) OpenAnnotation(path string) error {
	f, err := annotation.Read(path)
	if err != nil {
		log.Printf("Failed to read annotation %s: %v", path, err)
		return err
	}
	data, imgPath, err := annotation.ImageBytes(path, f)
	if err != nil {
		log.Printf("No image for %s: %v", path, err)
		return err
	}
	layer, err := image.FromBytes(imgPath, data)
	if err != nil {
		log.Printf("Failed to decode image for %s: %v", path, err)
		return err
	}
	specs, err := annotation.Specs(f)
	if err != nil {
		log.Printf("Rejected annotation %s: %v", path, err)
		return err
	}

	s.commit(layer, path, f, specs)
	return nil
}

// commit replaces the document. specs must already be validated.
func (s *State) commit(layer *image.Layer, labelPath string, f *annotation.File, specs []scene.ShapeSpec) {
	if f != nil && (f.ImageWidth != layer.Width() || f.ImageHeight != layer.Height()) {
		log.Printf("Annotation %s records %dx%d but image is %dx%d",
			labelPath, f.ImageWidth, f.ImageHeight, layer.Width(), layer.Height())
	}

	s.loading = true
	s.Registry.Clear()
	s.Registry.SetBounds(layer.Bounds())
	for _, spec := range specs {
		if _, err := s.Registry.RestoreShape(spec); err != nil {
			log.Printf("Skipping shape %q: %v", spec.Label, err)
		}
	}
	s.loading = false

	s.mu.Lock()
	s.Image = layer
	s.LabelPath = labelPath
	s.File = f
	s.mu.Unlock()

	s.SetModified(false)
	s.Emit(EventDocumentLoaded, layer.Path)
}

// Save writes the document to its annotation path.
func (s *State) Save() error {
	s.mu.RLock()
	path := s.LabelPath
	s.mu.RUnlock()
	return s.SaveAs(path)
}

// SaveAs writes the document to path and makes it the save target.
func (s *State) SaveAs(path string) error {
	s.mu.RLock()
	layer, base := s.Image, s.File
	s.mu.RUnlock()
	if layer == nil {
		return ErrNoDocument
	}
	if path == "" {
		return fmt.Errorf("save: empty path")
	}

	// Images with no file on disk are always embedded.
	embed := s.Config.EmbedImageData || !onDisk(layer.Path)
	f := annotation.Snapshot(s.Registry, annotation.SnapshotOptions{
		LabelPath: path,
		Image: annotation.ImageSource{
			Path:   layer.Path,
			Data:   layer.Data,
			Width:  layer.Width(),
			Height: layer.Height(),
		},
		EmbedImage: embed,
		Base:       base,
	})
	if err := annotation.Write(path, f); err != nil {
		return err
	}

	s.mu.Lock()
	s.LabelPath = path
	s.File = f
	s.mu.Unlock()
	s.SetModified(false)
	s.Emit(EventDocumentSaved, path)
	return nil
}

func onDisk(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// RenameShape changes a shape's label and group id.
func (s *State) RenameShape(id uuid.UUID, label string, groupID *int) error {
	return s.Registry.RenameShape(id, label, groupID)
}

// DeleteShape removes a shape and everything drawn for it.
func (s *State) DeleteShape(id uuid.UUID) error {
	return s.Registry.RemoveShape(id)
}

// SetShapeHidden shows or hides a shape. Visibility is not saved.
func (s *State) SetShapeHidden(id uuid.UUID, hidden bool) error {
	return s.Registry.SetHidden(id, hidden)
}
