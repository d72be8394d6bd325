package artifact

import (
	"encoding/base64"
	"fmt"

	"github.com/hupe1980/computeruse/core"
)

// ErrNotFound is returned when an artifact for the given run / id pair does
// not exist in the underlying store.
var ErrNotFound = fmt.Errorf("artifact not found")

// Store persists binary artifacts keyed by run id and artifact id.
type Store interface {
	// Save stores (or overwrites) the artifact bytes.
	Save(runID, artifactID string, data []byte) error

	// Get returns the stored artifact bytes or ErrNotFound.
	Get(runID, artifactID string) ([]byte, error)

	// List returns the artifact ids stored for the run.
	List(runID string) ([]string, error)

	// Delete removes the artifact if present or returns ErrNotFound.
	Delete(runID, artifactID string) error
}

// ScreenshotHook returns an after-screenshot hook that decodes every capture
// and saves it under a sequential id ("screenshot_0001.png", ...) keyed by
// the run id of the active context. Install it on a hook registry to get a
// visual trace of a run for free.
func ScreenshotHook(store Store) func(ctx *core.Context, shot core.Screenshot) error {
	var seq int
	return func(ctx *core.Context, shot core.Screenshot) error {
		data, err := base64.StdEncoding.DecodeString(shot.Data)
		if err != nil {
			return fmt.Errorf("decode screenshot: %w", err)
		}
		seq++
		return store.Save(ctx.RunID, fmt.Sprintf("screenshot_%04d.png", seq), data)
	}
}
