package dialogs

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"labelall/internal/scene"
)

// ShowDeleteConfirm asks whether s should be deleted and reports the answer.
func ShowDeleteConfirm(window fyne.Window, s *scene.Shape, onAnswer func(confirmed bool)) {
	msg := fmt.Sprintf("Delete %s %q?", s.Kind, s.DisplayName())
	dialog.ShowConfirm("Delete shape", msg, onAnswer, window)
}

// ShowUnsavedConfirm asks whether unsaved changes may be dropped.
func ShowUnsavedConfirm(window fyne.Window, action string, onAnswer func(discard bool)) {
	msg := fmt.Sprintf("There are unsaved changes. %s anyway?", action)
	dialog.ShowConfirm("Unsaved changes", msg, onAnswer, window)
}
