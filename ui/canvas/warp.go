package canvas

import (
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var (
	errWarpUnsupported = errors.New("pointer warp unsupported by this driver")
	errNoGLContext     = errors.New("no GLFW context for pointer warp")
)

// contextRunner is implemented by the GLFW driver's windows. RunNative alone
// does not make the GL context current.
type contextRunner interface {
	RunWithContext(func())
}

// cursorWindow is the part of a GLFW window used to place the pointer.
type cursorWindow interface {
	GetFramebufferSize() (int, int)
	GetSize() (int, int)
	SetCursorPos(x, y float64)
}

// currentWindow returns the window whose context is current on this thread.
var currentWindow = func() cursorWindow {
	if w := glfw.GetCurrentContext(); w != nil {
		return w
	}
	return nil
}

// warpPointer moves the system pointer to pos, given in window coordinates.
// It runs on the main thread with the window's context made current.
func warpPointer(win fyne.Window, pos fyne.Position) error {
	nw, ok := win.(driver.NativeWindow)
	if !ok {
		return errWarpUnsupported
	}
	cr, ok := win.(contextRunner)
	if !ok {
		return errWarpUnsupported
	}
	scale := float32(1)
	if c := win.Canvas(); c != nil {
		scale = c.Scale()
	}
	var err error
	nw.RunNative(func(any) {
		cr.RunWithContext(func() {
			w := currentWindow()
			if w == nil {
				err = errNoGLContext
				return
			}
			placeCursor(w, pos, scale)
		})
	})
	return err
}

// placeCursor converts pos from fyne units to screen coordinates, which
// differ from framebuffer pixels on HiDPI displays.
func placeCursor(w cursorWindow, pos fyne.Position, scale float32) {
	fbW, _ := w.GetFramebufferSize()
	winW, _ := w.GetSize()
	ratio := 1.0
	if winW > 0 && fbW > 0 {
		ratio = float64(fbW) / float64(winW)
	}
	w.SetCursorPos(float64(pos.X*scale)/ratio, float64(pos.Y*scale)/ratio)
}
