// Package autosave persists an editor's draft in the background: after a
// quiet period following the last edit, and on a fixed interval.
package autosave

import (
	"encoding/json"

	"github.com/debemdeboas/draftboard/internal/model"
)

// Serialize returns the snapshot form of a draft. Equal drafts always
// serialize to equal strings.
func Serialize(d model.Draft) string {
	// A struct of strings cannot fail to marshal.
	data, _ := json.Marshal(d)
	return string(data)
}

// ShouldSave reports whether current differs from the last persisted
// snapshot and has a non-blank title or content.
func ShouldSave(current model.Draft, lastSnapshot string) bool {
	if current.IsBlank() {
		return false
	}
	return Serialize(current) != lastSnapshot
}
