// Package dialogs provides application dialogs.
package dialogs

import (
	"errors"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"labelall/internal/scene"
)

// DefaultLabel is offered when no label has been used yet.
const DefaultLabel = "default"

var (
	errEmptyLabel = errors.New("label is required")
	errBadGroup   = errors.New("group id must be an integer")
)

// ParseGroupID reads the optional group id field. Blank means no group.
func ParseGroupID(text string) (*int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return nil, errBadGroup
	}
	return &v, nil
}

// ValidateLabel rejects blank labels.
func ValidateLabel(text string) error {
	if strings.TrimSpace(text) == "" {
		return errEmptyLabel
	}
	return nil
}

// LabelDialog asks for the label and optional group id of a finished shape.
type LabelDialog struct {
	window fyne.Window

	labelEntry *widget.SelectEntry
	groupEntry *widget.SelectEntry

	labels []string // most recent first
	groups []string

	onSubmit func(label string, groupID *int)
	onCancel func()
}

// NewLabelDialog creates a label dialog. labels and groups are offered as
// history in the drop-downs, most recent first.
func NewLabelDialog(window fyne.Window, labels, groups []string, onSubmit func(string, *int), onCancel func()) *LabelDialog {
	return &LabelDialog{
		window:   window,
		labels:   labels,
		groups:   groups,
		onSubmit: onSubmit,
		onCancel: onCancel,
	}
}

// Show displays the dialog for a shape of the given kind. The initial
// label and group are prefilled, e.g. when renaming.
func (d *LabelDialog) Show(kind scene.Kind, label string, groupID *int) {
	d.labelEntry = widget.NewSelectEntry(d.labels)
	d.labelEntry.Validator = ValidateLabel
	switch {
	case label != "":
		d.labelEntry.SetText(label)
	case len(d.labels) > 0:
		d.labelEntry.SetText(d.labels[0])
	default:
		d.labelEntry.SetText(DefaultLabel)
	}

	d.groupEntry = widget.NewSelectEntry(d.groups)
	d.groupEntry.SetPlaceHolder("none")
	d.groupEntry.Validator = func(s string) error {
		_, err := ParseGroupID(s)
		return err
	}
	if groupID != nil {
		d.groupEntry.SetText(strconv.Itoa(*groupID))
	}

	items := []*widget.FormItem{
		widget.NewFormItem("Label", d.labelEntry),
		widget.NewFormItem("Group ID", d.groupEntry),
	}
	dlg := dialog.NewForm("Label "+kind.String(), "OK", "Cancel", items, d.finish, d.window)
	dlg.Resize(fyne.NewSize(400, 200))
	dlg.Show()
	d.window.Canvas().Focus(d.labelEntry)
}

func (d *LabelDialog) finish(ok bool) {
	if !ok {
		if d.onCancel != nil {
			d.onCancel()
		}
		return
	}
	label := strings.TrimSpace(d.labelEntry.Text)
	// Validators already ran; a parse error here means the form was bypassed.
	groupID, err := ParseGroupID(d.groupEntry.Text)
	if err != nil || ValidateLabel(label) != nil {
		if d.onCancel != nil {
			d.onCancel()
		}
		return
	}
	if d.onSubmit != nil {
		d.onSubmit(label, groupID)
	}
}
