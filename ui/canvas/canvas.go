// Package canvas provides the annotation canvas: the image with its shapes,
// zoom, scrolling, and the pointer and key input that drives the editor.
package canvas

import (
	"image"
	"log"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"labelall/internal/editor"
	labelimage "labelall/internal/image"
	"labelall/internal/render"
	"labelall/internal/scene"
	"labelall/pkg/geometry"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25
)

// AnnotationCanvas shows the open image with its annotations and implements
// editor.Surface for the editor it owns.
type AnnotationCanvas struct {
	widget.BaseWidget

	editor *editor.Editor
	layer  *labelimage.Layer
	style  render.Style
	window fyne.Window

	// Display state
	raster  *fynecanvas.Raster
	zoom    float64
	scroll  *container.Scroll
	content *inputLayer
	imgSize fyne.Size
	// quarter turns clockwise
	quarters int

	// Fit to window
	fitToWindow    bool
	lastScrollSize fyne.Size

	cursor editor.Cursor

	// Callbacks
	onZoomChange  func(zoom float64)
	onLabel       func(kind scene.Kind)
	onDelete      func(s *scene.Shape)
	onAffordances func(active editor.Mode, busy bool)
}

// NewAnnotationCanvas creates a canvas and an idle editor over reg.
func NewAnnotationCanvas(reg *scene.Registry, style render.Style) *AnnotationCanvas {
	ac := &AnnotationCanvas{
		zoom:    1.0,
		style:   style,
		imgSize: fyne.NewSize(400, 300),
	}
	ac.editor = editor.New(reg, ac)

	ac.raster = fynecanvas.NewRaster(ac.draw)
	ac.raster.ScaleMode = fynecanvas.ImageScalePixels
	ac.raster.SetMinSize(ac.imgSize)

	ac.content = newInputLayer(ac)
	ac.scroll = container.NewScroll(ac.content)
	ac.scroll.Direction = container.ScrollBoth

	ac.ExtendBaseWidget(ac)
	return ac
}

// Editor returns the editor driven by this canvas.
func (ac *AnnotationCanvas) Editor() *editor.Editor {
	return ac.editor
}

// SetWindow tells the canvas which window it lives in, for pointer warping.
func (ac *AnnotationCanvas) SetWindow(w fyne.Window) {
	ac.window = w
}

// SetLayer replaces the displayed image.
func (ac *AnnotationCanvas) SetLayer(layer *labelimage.Layer) {
	ac.layer = layer
	if ac.fitToWindow {
		ac.FitToWindow()
		return
	}
	ac.updateContentSize()
}

// SetZoom sets the zoom level.
func (ac *AnnotationCanvas) SetZoom(zoom float64) {
	zoom = min(max(zoom, minZoom), maxZoom)
	ac.zoom = zoom
	ac.updateContentSize()

	if ac.onZoomChange != nil {
		ac.onZoomChange(zoom)
	}
}

// GetZoom returns the current zoom level.
func (ac *AnnotationCanvas) GetZoom() float64 {
	return ac.zoom
}

// ZoomIn increases the zoom level.
func (ac *AnnotationCanvas) ZoomIn() {
	ac.SetZoom(ac.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (ac *AnnotationCanvas) ZoomOut() {
	ac.SetZoom(ac.zoom / zoomStep)
}

// FitToWindow adjusts zoom to fit the image in the visible area.
func (ac *AnnotationCanvas) FitToWindow() {
	if ac.layer == nil || ac.layer.Width() == 0 || ac.layer.Height() == 0 {
		return
	}
	viewSize := ac.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		ac.updateContentSize()
		return
	}

	w, h := float64(ac.layer.Width()), float64(ac.layer.Height())
	if ac.quarters%2 == 1 {
		w, h = h, w
	}
	zoomX := float64(viewSize.Width) / w
	zoomY := float64(viewSize.Height) / h
	ac.SetZoom(min(zoomX, zoomY) * 0.95) // Leave a small margin
}

// RotateClockwise turns the view a quarter turn clockwise. Shapes keep their
// image coordinates.
func (ac *AnnotationCanvas) RotateClockwise() {
	ac.rotate(1)
}

// RotateCounterClockwise turns the view a quarter turn counter-clockwise.
func (ac *AnnotationCanvas) RotateCounterClockwise() {
	ac.rotate(3)
}

func (ac *AnnotationCanvas) rotate(quarters int) {
	ac.quarters = (ac.quarters + quarters) % 4
	if ac.fitToWindow {
		ac.FitToWindow()
	} else {
		ac.updateContentSize()
	}
	ac.Refresh()
}

// Rotation returns the view rotation in degrees, clockwise.
func (ac *AnnotationCanvas) Rotation() int {
	return ac.quarters * 90
}

// SetFitToWindow enables or disables auto-fit on resize.
func (ac *AnnotationCanvas) SetFitToWindow(fit bool) {
	ac.fitToWindow = fit
	if fit {
		ac.FitToWindow()
	}
}

// checkResize auto-fits when the viewport changed size.
func (ac *AnnotationCanvas) checkResize(size fyne.Size) {
	if !ac.fitToWindow {
		return
	}
	if size.Width > 0 && size.Height > 0 && size != ac.lastScrollSize {
		ac.lastScrollSize = size
		ac.FitToWindow()
	}
}

// OnZoomChange sets a callback for zoom changes.
func (ac *AnnotationCanvas) OnZoomChange(callback func(zoom float64)) {
	ac.onZoomChange = callback
}

// OnLabelRequest sets the callback that opens the label dialog.
func (ac *AnnotationCanvas) OnLabelRequest(callback func(kind scene.Kind)) {
	ac.onLabel = callback
}

// OnDeleteRequest sets the callback that asks to confirm a deletion.
func (ac *AnnotationCanvas) OnDeleteRequest(callback func(s *scene.Shape)) {
	ac.onDelete = callback
}

// OnAffordances sets the callback that updates the mode toolbar.
func (ac *AnnotationCanvas) OnAffordances(callback func(active editor.Mode, busy bool)) {
	ac.onAffordances = callback
}

// scaledSize is the zoomed image size before rotation.
func (ac *AnnotationCanvas) scaledSize() (w, h float64) {
	if ac.layer == nil {
		return 0, 0
	}
	return float64(ac.layer.Width()) * ac.zoom, float64(ac.layer.Height()) * ac.zoom
}

// ImageToCanvas converts image coordinates to canvas coordinates.
func (ac *AnnotationCanvas) ImageToCanvas(p geometry.Point2D) fyne.Position {
	w, h := ac.scaledSize()
	u, v := p.X*ac.zoom, p.Y*ac.zoom
	switch ac.quarters {
	case 1:
		u, v = h-v, u
	case 2:
		u, v = w-u, h-v
	case 3:
		u, v = v, w-u
	}
	return fyne.NewPos(float32(u), float32(v))
}

// CanvasToImage converts canvas coordinates to image coordinates.
func (ac *AnnotationCanvas) CanvasToImage(pos fyne.Position) geometry.Point2D {
	w, h := ac.scaledSize()
	u, v := float64(pos.X), float64(pos.Y)
	switch ac.quarters {
	case 1:
		u, v = v, h-u
	case 2:
		u, v = w-u, h-v
	case 3:
		u, v = w-v, u
	}
	return geometry.Point2D{X: u / ac.zoom, Y: v / ac.zoom}
}

// SetCursor implements editor.Surface.
func (ac *AnnotationCanvas) SetCursor(c editor.Cursor) {
	ac.cursor = c
}

// WarpPointer implements editor.Surface.
func (ac *AnnotationCanvas) WarpPointer(p geometry.Point2D) {
	if ac.window == nil {
		return
	}
	origin := fyne.CurrentApp().Driver().AbsolutePositionForObject(ac.content)
	if err := warpPointer(ac.window, origin.Add(ac.ImageToCanvas(p))); err != nil {
		log.Printf("Pointer warp failed: %v", err)
	}
}

// RequestLabel implements editor.Surface.
func (ac *AnnotationCanvas) RequestLabel(kind scene.Kind) {
	ac.Refresh()
	if ac.onLabel == nil {
		log.Printf("No label dialog for %s, discarding", kind)
		_ = ac.editor.CancelLabel()
		return
	}
	ac.onLabel(kind)
}

// RequestDeleteConfirm implements editor.Surface.
func (ac *AnnotationCanvas) RequestDeleteConfirm(s *scene.Shape) {
	if ac.onDelete == nil {
		_ = ac.editor.CancelDelete()
		return
	}
	ac.onDelete(s)
}

// SetAffordances implements editor.Surface.
func (ac *AnnotationCanvas) SetAffordances(active editor.Mode, busy bool) {
	if ac.onAffordances != nil {
		ac.onAffordances(active, busy)
	}
}

// Refresh redraws the image and overlay.
func (ac *AnnotationCanvas) Refresh() {
	ac.raster.Refresh()
}

// updateContentSize updates the content size based on image, zoom and rotation.
func (ac *AnnotationCanvas) updateContentSize() {
	if ac.layer == nil || ac.layer.Width() == 0 || ac.layer.Height() == 0 {
		ac.imgSize = fyne.NewSize(400, 300)
	} else {
		w, h := ac.scaledSize()
		if ac.quarters%2 == 1 {
			w, h = h, w
		}
		ac.imgSize = fyne.NewSize(float32(w), float32(h))
	}

	ac.raster.SetMinSize(ac.imgSize)
	ac.raster.Resize(ac.imgSize)
	ac.content.Resize(ac.imgSize)
	ac.content.Refresh()
	ac.scroll.Refresh()
}

// draw is the raster drawing function.
func (ac *AnnotationCanvas) draw(w, h int) image.Image {
	var base image.Image
	if ac.layer != nil && ac.layer.Visible {
		base = ac.layer.Image
	}
	frame := render.BuildFrame(ac.editor.Registry(), ac.editor.Fill())
	out, err := render.Draw(base, ac.zoom, frame, ac.style)
	if err != nil {
		log.Printf("Render failed: %v", err)
		return image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	}
	return render.Rotate(out, ac.quarters)
}

// CreateRenderer implements fyne.Widget.
func (ac *AnnotationCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &annotationCanvasRenderer{canvas: ac}
}

type annotationCanvasRenderer struct {
	canvas *AnnotationCanvas
}

func (r *annotationCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.scroll.Resize(size)
	r.canvas.checkResize(size)
}

func (r *annotationCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *annotationCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *annotationCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *annotationCanvasRenderer) Destroy() {}

var _ editor.Surface = (*AnnotationCanvas)(nil)

// desktopCursor maps the editor's pointer shapes onto fyne's.
func desktopCursor(c editor.Cursor) desktop.Cursor {
	switch c {
	case editor.CursorCross:
		return desktop.CrosshairCursor
	case editor.CursorHand:
		return desktop.PointerCursor
	}
	return desktop.DefaultCursor
}
