// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"labelall/internal/annotation"
	"labelall/internal/app"
	"labelall/internal/editor"
	"labelall/internal/image"
	"labelall/internal/render"
	"labelall/internal/scene"
	"labelall/internal/version"
	"labelall/ui/canvas"
	"labelall/ui/dialogs"
	"labelall/ui/panels"
	"labelall/ui/prefs"
)

const appTitle = "labelall"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app         fyne.App
	state       *app.State
	prefs       *prefs.Prefs
	canvas      *canvas.AnnotationCanvas
	shapesPanel *panels.ShapesPanel
	filesPanel  *panels.FilesPanel
	statusBar   *widget.Label
	watcher     *app.FileWatcher

	modeButtons map[editor.Mode]*widget.Button

	// Menu items that need state tracking
	fitToWindowItem *fyne.MenuItem
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		state:   state,
		prefs:   p,
		watcher: app.NewFileWatcher(2 * time.Second),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.setupWatcher()

	mw.Resize(fyne.NewSize(
		float32(p.FloatWithFallback(prefs.KeyWindowWidth, 1200)),
		float32(p.FloatWithFallback(prefs.KeyWindowHeight, 800)),
	))
	mw.SetCloseIntercept(mw.onQuit)
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	st := render.DefaultStyle()
	st.FillAlpha = mw.state.Config.FillAlpha
	st.EdgeWidth = mw.state.Config.EdgeWidth
	st.IconSize = mw.state.Config.IconSize

	mw.canvas = canvas.NewAnnotationCanvas(mw.state.Registry, st)
	mw.canvas.SetWindow(mw.Window)
	mw.canvas.OnLabelRequest(mw.askLabel)
	mw.canvas.OnDeleteRequest(mw.askDelete)
	mw.canvas.OnAffordances(mw.updateModeButtons)
	mw.canvas.OnZoomChange(func(zoom float64) {
		mw.updateStatus(fmt.Sprintf("Zoom %.0f%%", zoom*100))
	})

	mw.shapesPanel = panels.NewShapesPanel(mw.state, mw.Window)
	ed := mw.canvas.Editor()
	mw.shapesPanel.SetCanEdit(func() bool {
		return !ed.Busy() && ed.Suspended() == editor.NotSuspended
	})
	mw.shapesPanel.SetHistory(mw.history)
	mw.shapesPanel.OnRenamed(mw.remember)
	mw.shapesPanel.OnChanged(func() {
		ed.ClearHover()
		mw.canvas.Refresh()
	})

	mw.filesPanel = panels.NewFilesPanel(mw.state)
	mw.filesPanel.OnOpen(func(path string) {
		mw.confirmDiscard("Open another file", func() { mw.OpenPath(path) })
	})

	mw.statusBar = widget.NewLabel("Ready")

	canvasArea := container.NewBorder(
		mw.createToolbar(), // top
		nil,                // bottom
		nil,                // left
		nil,                // right
		mw.canvas,          // center
	)

	side := container.NewVSplit(mw.shapesPanel.Container(), mw.filesPanel.Container())
	split := container.NewHSplit(canvasArea, side)
	split.SetOffset(0.8)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
}

// createToolbar creates the mode buttons and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	mw.modeButtons = make(map[editor.Mode]*widget.Button)
	var modes []fyne.CanvasObject
	for _, m := range []editor.Mode{
		editor.ModeDrawPoint,
		editor.ModeDrawLine,
		editor.ModeDrawRectangle,
		editor.ModeDrawPolygon,
		editor.ModeEdit,
	} {
		m := m
		btn := widget.NewButton(modeTitle(m), func() { mw.toggleMode(m) })
		mw.modeButtons[m] = btn
		modes = append(modes, btn)
	}

	zoomOutBtn := widget.NewButton("-", mw.onZoomOut)
	zoomInBtn := widget.NewButton("+", mw.onZoomIn)
	fitBtn := widget.NewButton("Fit", mw.onToggleFitToWindow)
	actualBtn := widget.NewButton("1:1", mw.onActualSize)

	return container.NewHBox(
		container.NewHBox(modes...),
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		actualBtn,
	)
}

func modeTitle(m editor.Mode) string {
	switch m {
	case editor.ModeDrawPoint:
		return "Point"
	case editor.ModeDrawLine:
		return "Line"
	case editor.ModeDrawRectangle:
		return "Rectangle"
	case editor.ModeDrawPolygon:
		return "Polygon"
	}
	return "Edit"
}

// toggleMode arms m, or returns to idle when m is already active.
func (mw *MainWindow) toggleMode(m editor.Mode) {
	ed := mw.canvas.Editor()
	if ed.Mode() == m {
		m = editor.ModeIdle
	}
	if err := ed.SetMode(m); err != nil {
		mw.updateStatus(err.Error())
	}
}

// updateModeButtons keeps the tools mutually exclusive: while one is armed
// the others are disabled, and while a shape is being built the armed one
// cannot be released either.
func (mw *MainWindow) updateModeButtons(active editor.Mode, busy bool) {
	for m, btn := range mw.modeButtons {
		switch {
		case m == active:
			btn.Importance = widget.HighImportance
			if busy {
				btn.Disable()
			} else {
				btn.Enable()
			}
		case active == editor.ModeIdle:
			btn.Importance = widget.MediumImportance
			btn.Enable()
		default:
			btn.Importance = widget.MediumImportance
			btn.Disable()
		}
		btn.Refresh()
	}
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open...", mw.onOpen),
		fyne.NewMenuItem("Open Directory...", mw.onOpenDir),
		fyne.NewMenuItem("Next Image", mw.filesPanel.Next),
		fyne.NewMenuItem("Previous Image", mw.filesPanel.Previous),
		fyne.NewMenuItem("Save", mw.onSave),
		fyne.NewMenuItem("Save As...", mw.onSaveAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", mw.onQuit),
	)

	mw.fitToWindowItem = fyne.NewMenuItem("Fit to Window", mw.onToggleFitToWindow)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		mw.fitToWindowItem,
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Rotate Clockwise", mw.onRotateClockwise),
		fyne.NewMenuItem("Rotate Counter-clockwise", mw.onRotateCounterClockwise),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventDocumentLoaded, func(data interface{}) {
		mw.canvas.Editor().Reset()
		mw.canvas.SetLayer(mw.state.Image)
		mw.watcher.Watch(mw.state.LabelPath)
		mw.updateTitle()
		if path, ok := data.(string); ok {
			mw.updateStatus("Loaded " + path)
		}
	})

	mw.state.On(app.EventDocumentSaved, func(data interface{}) {
		mw.watcher.Watch(mw.state.LabelPath)
		mw.updateTitle()
		if path, ok := data.(string); ok {
			mw.updateStatus("Saved " + path)
		}
	})

	mw.state.On(app.EventModified, func(interface{}) {
		mw.updateTitle()
	})
}

// setupWatcher offers to reload when the annotation file is rewritten by
// another program.
func (mw *MainWindow) setupWatcher() {
	mw.watcher.OnChange(func(path string) {
		log.Printf("Annotation %s changed on disk", path)
		msg := fmt.Sprintf("%s was changed by another program.\nReload it?", filepath.Base(path))
		if mw.state.IsModified() {
			msg += "\nYour unsaved changes will be lost."
		}
		dialog.ShowConfirm("File changed", msg, func(reload bool) {
			mw.answerReload(path, reload)
		}, mw.Window)
	})
	mw.watcher.Start()
}

// answerReload reloads path, or keeps the open document and accepts the
// file as it is now.
func (mw *MainWindow) answerReload(path string, reload bool) {
	if !reload {
		// Writes made while the dialog was open are declined too.
		mw.watcher.ResetBaseline()
		return
	}
	if err := mw.state.Open(path); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) updateTitle() {
	title := appTitle
	if mw.state.Image != nil {
		title += " - " + filepath.Base(mw.state.Image.Path)
	}
	if mw.state.IsModified() {
		title += " *"
	}
	mw.SetTitle(title)
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// history returns the used labels and groups for the label dialog.
func (mw *MainWindow) history() (labels, groups []string) {
	return mw.prefs.Strings(prefs.KeyLabels), mw.prefs.Strings(prefs.KeyGroups)
}

// remember records a used label and group for the next dialog.
func (mw *MainWindow) remember(label string, groupID *int) {
	mw.prefs.PushString(prefs.KeyLabels, label)
	if groupID != nil {
		mw.prefs.PushString(prefs.KeyGroups, strconv.Itoa(*groupID))
	}
}

func (mw *MainWindow) askLabel(kind scene.Kind) {
	ed := mw.canvas.Editor()
	labels, groups := mw.history()
	dlg := dialogs.NewLabelDialog(mw.Window, labels, groups,
		func(label string, groupID *int) {
			s, err := ed.SubmitLabel(label, groupID)
			if err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			mw.remember(label, groupID)
			mw.updateStatus("Added " + s.DisplayName())
			mw.canvas.Refresh()
		},
		func() {
			if err := ed.CancelLabel(); err != nil {
				log.Printf("Cancel label: %v", err)
			}
			mw.canvas.Refresh()
		},
	)
	dlg.Show(kind, "", nil)
}

func (mw *MainWindow) askDelete(s *scene.Shape) {
	ed := mw.canvas.Editor()
	dialogs.ShowDeleteConfirm(mw.Window, s, func(ok bool) {
		var err error
		if ok {
			err = ed.ConfirmDelete()
		} else {
			err = ed.CancelDelete()
		}
		if err != nil {
			log.Printf("Delete confirmation: %v", err)
		}
		mw.canvas.Refresh()
	})
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(filePath))
}

// OpenPath loads an image or annotation file, as given on the command line.
func (mw *MainWindow) OpenPath(path string) {
	if !image.IsSupportedFormat(path) && !annotation.IsLabelFile(path) {
		dialog.ShowError(fmt.Errorf("unsupported file %s", filepath.Base(path)), mw.Window)
		return
	}
	mw.saveLastDir(path)
	if err := mw.state.Open(path); err != nil {
		if annotation.IsRejected(err) {
			err = fmt.Errorf("annotation file rejected, nothing was loaded: %w", err)
		}
		dialog.ShowError(err, mw.Window)
	}
}

// OpenDir lists the images below dir in the files panel and opens the first
// one when no document is open yet.
func (mw *MainWindow) OpenDir(dir string) error {
	files, err := app.ScanImages(dir)
	if err != nil {
		return err
	}
	mw.prefs.SetString(prefs.KeyLastDir, dir)
	mw.filesPanel.SetFiles(dir, files)
	mw.updateStatus(fmt.Sprintf("%d images in %s", len(files), dir))
	if len(files) > 0 && !mw.state.HasDocument() {
		mw.OpenPath(files[0])
	}
	return nil
}

// Menu action handlers

func (mw *MainWindow) onOpen() {
	open := func() {
		fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			reader.Close()
			mw.OpenPath(reader.URI().Path())
		}, mw.Window)
		exts := append(image.SupportedFormats(), annotation.Suffix)
		fd.SetFilter(storage.NewExtensionFileFilter(exts))
		if loc := mw.getLastDir(); loc != nil {
			fd.SetLocation(loc)
		}
		fd.Show()
	}
	mw.confirmDiscard("Open another file", open)
}

func (mw *MainWindow) onOpenDir() {
	fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		if err := mw.OpenDir(uri.Path()); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSave() {
	if !mw.state.HasDocument() {
		mw.updateStatus("Nothing to save")
		return
	}
	mw.watcher.Stop()
	defer mw.watcher.Start()
	if err := mw.state.Save(); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveAs() {
	if !mw.state.HasDocument() {
		mw.updateStatus("Nothing to save")
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if !annotation.IsLabelFile(path) {
			path += annotation.Suffix
		}
		mw.saveLastDir(path)
		mw.watcher.Stop()
		defer mw.watcher.Start()
		if err := mw.state.SaveAs(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName(filepath.Base(mw.state.LabelPath))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// confirmDiscard runs action, first asking when there are unsaved changes.
func (mw *MainWindow) confirmDiscard(what string, action func()) {
	if !mw.state.IsModified() {
		action()
		return
	}
	dialogs.ShowUnsavedConfirm(mw.Window, what, func(discard bool) {
		if discard {
			action()
		}
	})
}

func (mw *MainWindow) onQuit() {
	mw.confirmDiscard("Quit", func() {
		mw.watcher.Stop()
		size := mw.Canvas().Size()
		mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
		mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
		if err := mw.prefs.Save(); err != nil {
			log.Printf("Failed to save preferences: %v", err)
		}
		mw.app.Quit()
	})
}

func (mw *MainWindow) onZoomIn() {
	mw.disableFitToWindow()
	mw.canvas.ZoomIn()
}

func (mw *MainWindow) onZoomOut() {
	mw.disableFitToWindow()
	mw.canvas.ZoomOut()
}

func (mw *MainWindow) onToggleFitToWindow() {
	enabled := !mw.fitToWindowItem.Checked
	mw.canvas.SetFitToWindow(enabled)
	mw.fitToWindowItem.Checked = enabled
	mw.MainMenu().Refresh()
}

func (mw *MainWindow) onActualSize() {
	mw.disableFitToWindow()
	mw.canvas.SetZoom(1.0)
}

func (mw *MainWindow) onRotateClockwise() {
	mw.canvas.RotateClockwise()
	mw.updateStatus(fmt.Sprintf("Rotated %d°", mw.canvas.Rotation()))
}

func (mw *MainWindow) onRotateCounterClockwise() {
	mw.canvas.RotateCounterClockwise()
	mw.updateStatus(fmt.Sprintf("Rotated %d°", mw.canvas.Rotation()))
}

func (mw *MainWindow) disableFitToWindow() {
	if mw.fitToWindowItem.Checked {
		mw.canvas.SetFitToWindow(false)
		mw.fitToWindowItem.Checked = false
		mw.MainMenu().Refresh()
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s %s\n\n"+
			"Image annotation editor for points, lines,\n"+
			"rectangles and polygons.\n\n"+
			"Annotation format %s",
			appTitle, version.String(), version.FormatVersion),
		mw.Window)
}
