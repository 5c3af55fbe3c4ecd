package editor

import (
	"fmt"
	"io"
	"sync"

	"github.com/debemdeboas/draftboard/internal/autosave"
)

const (
	NoticeSaved  = "Draft auto-saved"
	NoticeFailed = "Failed to auto-save draft"
)

// Notices is the output shared by a composer and its background saves.
// Writes are serialized so a notice never splits a prompt.
type Notices struct {
	mu  sync.Mutex
	out io.Writer
}

func NewNotices(out io.Writer) *Notices {
	return &Notices{out: out}
}

func (n *Notices) Write(p []byte) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.out.Write(p)
}

// Listen reports the outcome of each save. Pass it to
// autosave.WithStatusListener.
func (n *Notices) Listen(status autosave.Status) {
	switch status {
	case autosave.StatusSaved:
		fmt.Fprintln(n, outputStyle.Render(NoticeSaved))
	case autosave.StatusError:
		fmt.Fprintln(n, errorStyle.Render(NoticeFailed))
	}
}
