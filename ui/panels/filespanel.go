package panels

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"labelall/internal/app"
)

// FilesPanel lists the images of an opened directory. Picking a row, moving
// the slider or stepping with the buttons asks to open that image; the
// highlighted row only moves once the image has actually been loaded.
type FilesPanel struct {
	state     *app.State
	container fyne.CanvasObject

	root    string
	files   []string
	current int // -1 if the open document is not in the list

	list    *widget.List
	slider  *widget.Slider
	title   *widget.Label
	prevBtn *widget.Button
	nextBtn *widget.Button

	// syncing is set while the widgets are moved to match current.
	syncing bool
	// onOpen is asked to load a file, e.g. after confirming unsaved changes.
	onOpen func(path string)
}

// NewFilesPanel creates an empty file list.
func NewFilesPanel(state *app.State) *FilesPanel {
	fp := &FilesPanel{
		state:   state,
		current: -1,
	}

	fp.list = widget.NewList(
		func() int {
			return len(fp.files)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("image.png")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(fp.files) {
				return
			}
			obj.(*widget.Label).SetText(fp.displayName(fp.files[id]))
		},
	)
	fp.list.OnSelected = func(id widget.ListItemID) {
		fp.request(int(id))
	}

	fp.slider = widget.NewSlider(0, 0)
	fp.slider.OnChangeEnded = func(v float64) {
		fp.request(int(v))
	}

	fp.title = widget.NewLabelWithStyle("Files", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	fp.prevBtn = widget.NewButton("Previous", fp.Previous)
	fp.nextBtn = widget.NewButton("Next", fp.Next)

	state.On(app.EventDocumentLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			fp.markCurrent(path)
		}
	})

	fp.sync()
	fp.container = container.NewBorder(
		fp.title,
		container.NewVBox(fp.slider, container.NewGridWithColumns(2, fp.prevBtn, fp.nextBtn)),
		nil, nil,
		fp.list,
	)
	return fp
}

// Container returns the panel's root object.
func (fp *FilesPanel) Container() fyne.CanvasObject {
	return fp.container
}

// OnOpen sets the callback that loads a picked file.
func (fp *FilesPanel) OnOpen(fn func(path string)) {
	fp.onOpen = fn
}

// SetFiles replaces the list with the images found under root.
func (fp *FilesPanel) SetFiles(root string, files []string) {
	fp.root = root
	fp.files = files
	fp.current = -1
	if fp.state.Image != nil {
		fp.current = fp.indexOf(fp.state.Image.Path)
	}
	fp.list.Refresh()
	fp.sync()
}

// Files returns the listed paths.
func (fp *FilesPanel) Files() []string {
	return fp.files
}

// Current returns the index of the open image in the list, or -1.
func (fp *FilesPanel) Current() int {
	return fp.current
}

// Next asks to open the image after the current one.
func (fp *FilesPanel) Next() {
	fp.request(fp.current + 1)
}

// Previous asks to open the image before the current one.
func (fp *FilesPanel) Previous() {
	fp.request(fp.current - 1)
}

func (fp *FilesPanel) displayName(path string) string {
	if fp.root == "" {
		return filepath.Base(path)
	}
	rel, err := filepath.Rel(fp.root, path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

func (fp *FilesPanel) indexOf(path string) int {
	path = filepath.Clean(path)
	for i, f := range fp.files {
		if filepath.Clean(f) == path {
			return i
		}
	}
	return -1
}

// request asks to open file i. The widgets snap back to the open document
// until the load happens.
func (fp *FilesPanel) request(i int) {
	if fp.syncing {
		return
	}
	if i < 0 || i >= len(fp.files) || i == fp.current {
		fp.sync()
		return
	}
	path := fp.files[i]
	fp.sync()
	if fp.onOpen != nil {
		fp.onOpen(path)
	}
}

func (fp *FilesPanel) markCurrent(path string) {
	fp.current = fp.indexOf(path)
	fp.sync()
}

// sync moves list, slider and buttons to the open document.
func (fp *FilesPanel) sync() {
	fp.syncing = true
	defer func() { fp.syncing = false }()

	n := len(fp.files)
	if fp.current >= 0 {
		fp.list.Select(fp.current)
		fp.list.ScrollTo(fp.current)
	} else {
		fp.list.UnselectAll()
	}

	fp.slider.Max = float64(max(n-1, 0))
	fp.slider.SetValue(float64(max(fp.current, 0)))
	fp.slider.Refresh()
	if n > 1 {
		fp.slider.Enable()
	} else {
		fp.slider.Disable()
	}

	if fp.current > 0 {
		fp.prevBtn.Enable()
	} else {
		fp.prevBtn.Disable()
	}
	if n > 0 && fp.current < n-1 {
		fp.nextBtn.Enable()
	} else {
		fp.nextBtn.Disable()
	}

	switch {
	case n == 0:
		fp.title.SetText("Files")
	case fp.current < 0:
		fp.title.SetText(fmt.Sprintf("Files (%d)", n))
	default:
		fp.title.SetText(fmt.Sprintf("Files (%d/%d)", fp.current+1, n))
	}
}
