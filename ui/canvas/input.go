package canvas

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"labelall/internal/editor"
)

// inputLayer wraps the raster and turns pointer and key events into
// editor calls in image coordinates.
type inputLayer struct {
	widget.BaseWidget
	canvas  *AnnotationCanvas
	pressed bool
}

func newInputLayer(ac *AnnotationCanvas) *inputLayer {
	il := &inputLayer{canvas: ac}
	il.ExtendBaseWidget(il)
	return il
}

func (il *inputLayer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(il.canvas.raster)
}

func (il *inputLayer) MinSize() fyne.Size {
	return il.canvas.raster.MinSize()
}

// MouseDown handles button presses. Only the left button draws or grabs.
func (il *inputLayer) MouseDown(ev *desktop.MouseEvent) {
	il.focus()
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	il.pressed = true
	ed := il.canvas.editor
	if err := ed.Press(il.canvas.CanvasToImage(ev.Position)); err != nil {
		log.Printf("Press at %v: %v", ev.Position, err)
	}
	il.canvas.Refresh()
}

func (il *inputLayer) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	il.release(ev.Position)
}

func (il *inputLayer) release(pos fyne.Position) {
	if !il.pressed {
		return
	}
	il.pressed = false
	il.canvas.editor.Release(il.canvas.CanvasToImage(pos))
	il.canvas.Refresh()
}

func (il *inputLayer) MouseIn(ev *desktop.MouseEvent) {
	il.canvas.editor.Move(il.canvas.CanvasToImage(ev.Position), il.pressed)
}

func (il *inputLayer) MouseMoved(ev *desktop.MouseEvent) {
	il.canvas.editor.Move(il.canvas.CanvasToImage(ev.Position), il.pressed)
}

func (il *inputLayer) MouseOut() {}

// Dragged keeps pointer motion flowing while the button is held.
func (il *inputLayer) Dragged(ev *fyne.DragEvent) {
	il.canvas.editor.Move(il.canvas.CanvasToImage(ev.Position), true)
	il.canvas.Refresh()
}

func (il *inputLayer) DragEnd() {
	if il.pressed {
		il.pressed = false
		il.canvas.editor.Release(il.canvas.editor.Registry().Cursor())
		il.canvas.Refresh()
	}
}

// Cursor implements desktop.Cursorable.
func (il *inputLayer) Cursor() desktop.Cursor {
	return desktopCursor(il.canvas.cursor)
}

// Scrolled zooms with the shortcut modifier held and scrolls otherwise.
func (il *inputLayer) Scrolled(ev *fyne.ScrollEvent) {
	if !zoomModifierHeld() {
		il.canvas.scroll.Scrolled(ev)
		return
	}
	if ev.Scrolled.DY > 0 {
		il.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		il.canvas.ZoomOut()
	}
}

func zoomModifierHeld() bool {
	app := fyne.CurrentApp()
	if app == nil {
		return false
	}
	d, ok := app.Driver().(desktop.Driver)
	if !ok {
		return false
	}
	return d.CurrentKeyModifiers()&fyne.KeyModifierShortcutDefault != 0
}

func (il *inputLayer) focus() {
	app := fyne.CurrentApp()
	if app == nil {
		return
	}
	if c := app.Driver().CanvasForObject(il); c != nil {
		c.Focus(il)
	}
}

func (il *inputLayer) FocusGained() {}
func (il *inputLayer) FocusLost()   {}

func (il *inputLayer) TypedRune(rune) {}

// TypedKey forwards editing keys to the editor.
func (il *inputLayer) TypedKey(ev *fyne.KeyEvent) {
	var k editor.Key
	switch ev.Name {
	case fyne.KeyBackspace:
		k = editor.KeyBackspace
	case fyne.KeyDelete:
		k = editor.KeyDelete
	case fyne.KeyEscape:
		k = editor.KeyEscape
	default:
		return
	}
	if err := il.canvas.editor.Key(k); err != nil {
		log.Printf("Key %s: %v", ev.Name, err)
	}
	il.canvas.Refresh()
}

var (
	_ desktop.Mouseable  = (*inputLayer)(nil)
	_ desktop.Hoverable  = (*inputLayer)(nil)
	_ desktop.Cursorable = (*inputLayer)(nil)
	_ fyne.Draggable     = (*inputLayer)(nil)
	_ fyne.Focusable     = (*inputLayer)(nil)
	_ fyne.Scrollable    = (*inputLayer)(nil)
)
