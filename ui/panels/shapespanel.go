// Package panels provides the side panels of the main window.
package panels

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"labelall/internal/app"
	"labelall/internal/scene"
	"labelall/ui/dialogs"
)

// ShapesPanel lists the finished shapes with a visibility check per row
// and rename and delete actions for the selected one.
type ShapesPanel struct {
	state     *app.State
	window    fyne.Window
	container fyne.CanvasObject

	list        *widget.List
	shapes      []*scene.Shape
	selectedIdx int // -1 if none

	renameBtn *widget.Button
	deleteBtn *widget.Button

	// canEdit reports whether the editor is free for changes from the panel.
	canEdit func() bool
	// history supplies the label dialog drop-downs.
	history func() (labels, groups []string)
	// onRenamed records a label the user typed.
	onRenamed func(label string, groupID *int)
	// onChanged asks the canvas to redraw.
	onChanged func()
}

// NewShapesPanel creates the shape list.
func NewShapesPanel(state *app.State, window fyne.Window) *ShapesPanel {
	sp := &ShapesPanel{
		state:       state,
		window:      window,
		selectedIdx: -1,
		canEdit:     func() bool { return true },
		history:     func() ([]string, []string) { return nil, nil },
	}

	sp.list = widget.NewList(
		func() int {
			return len(sp.shapes)
		},
		func() fyne.CanvasObject {
			return widget.NewCheck("Shape Name", nil)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			check := obj.(*widget.Check)
			if id >= len(sp.shapes) {
				return
			}
			s := sp.shapes[id]
			// Clear the handler first so SetChecked does not echo back.
			check.OnChanged = nil
			check.Text = s.DisplayName()
			check.SetChecked(!s.Hidden)
			check.OnChanged = func(visible bool) {
				sp.setVisible(s, visible)
			}
		},
	)
	sp.list.OnSelected = func(id widget.ListItemID) {
		sp.selectedIdx = int(id)
		sp.updateButtons()
	}
	sp.list.OnUnselected = func(widget.ListItemID) {
		sp.selectedIdx = -1
		sp.updateButtons()
	}

	sp.renameBtn = widget.NewButton("Rename", sp.renameSelected)
	sp.deleteBtn = widget.NewButton("Delete", sp.deleteSelected)
	sp.updateButtons()

	for _, ev := range []app.EventType{
		app.EventDocumentLoaded,
		app.EventShapeAdded,
		app.EventShapeRemoved,
		app.EventShapeRenamed,
		app.EventShapeVisibility,
		app.EventShapesCleared,
	} {
		state.On(ev, func(interface{}) { sp.Refresh() })
	}

	sp.container = container.NewBorder(
		widget.NewLabelWithStyle("Shapes", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWithColumns(2, sp.renameBtn, sp.deleteBtn),
		nil, nil,
		sp.list,
	)
	return sp
}

// Container returns the panel's root object.
func (sp *ShapesPanel) Container() fyne.CanvasObject {
	return sp.container
}

// SetCanEdit installs the guard consulted before the panel changes shapes.
func (sp *ShapesPanel) SetCanEdit(fn func() bool) {
	sp.canEdit = fn
}

// SetHistory installs the supplier of used labels and groups.
func (sp *ShapesPanel) SetHistory(fn func() (labels, groups []string)) {
	sp.history = fn
}

// OnRenamed sets a callback run after a rename.
func (sp *ShapesPanel) OnRenamed(fn func(label string, groupID *int)) {
	sp.onRenamed = fn
}

// OnChanged sets a callback run after the panel changed the scene.
func (sp *ShapesPanel) OnChanged(fn func()) {
	sp.onChanged = fn
}

// Refresh reloads the rows from the registry.
func (sp *ShapesPanel) Refresh() {
	sp.shapes = sp.state.Registry.Shapes()
	if sp.selectedIdx >= len(sp.shapes) {
		sp.selectedIdx = -1
		sp.list.UnselectAll()
	}
	sp.list.Refresh()
	sp.updateButtons()
}

func (sp *ShapesPanel) selected() *scene.Shape {
	if sp.selectedIdx < 0 || sp.selectedIdx >= len(sp.shapes) {
		return nil
	}
	return sp.shapes[sp.selectedIdx]
}

func (sp *ShapesPanel) updateButtons() {
	if sp.selected() == nil {
		sp.renameBtn.Disable()
		sp.deleteBtn.Disable()
		return
	}
	sp.renameBtn.Enable()
	sp.deleteBtn.Enable()
}

func (sp *ShapesPanel) setVisible(s *scene.Shape, visible bool) {
	if err := sp.state.SetShapeHidden(s.ID, !visible); err != nil {
		log.Printf("Visibility of %s: %v", s.DisplayName(), err)
		return
	}
	sp.changed()
}

func (sp *ShapesPanel) renameSelected() {
	s := sp.selected()
	if s == nil || !sp.canEdit() {
		return
	}
	labels, groups := sp.history()
	dlg := dialogs.NewLabelDialog(sp.window, labels, groups, func(label string, groupID *int) {
		if err := sp.state.RenameShape(s.ID, label, groupID); err != nil {
			dialog.ShowError(err, sp.window)
			return
		}
		if sp.onRenamed != nil {
			sp.onRenamed(label, groupID)
		}
		sp.changed()
	}, nil)
	dlg.Show(s.Kind, s.Label, s.GroupID)
}

func (sp *ShapesPanel) deleteSelected() {
	s := sp.selected()
	if s == nil || !sp.canEdit() {
		return
	}
	dialogs.ShowDeleteConfirm(sp.window, s, func(ok bool) {
		if !ok {
			return
		}
		if err := sp.state.DeleteShape(s.ID); err != nil {
			dialog.ShowError(err, sp.window)
			return
		}
		sp.list.UnselectAll()
		sp.changed()
	})
}

func (sp *ShapesPanel) changed() {
	if sp.onChanged != nil {
		sp.onChanged()
	}
}
