// Package surface provides the embedded content viewports the kiosk mounts:
// an abstract Surface contract, an HTTP-backed implementation that renders
// extracted page text or terminal graphics for image content, and the pool
// holding one surface per configured display entry.
package surface

import "context"

// Status describes a surface's load lifecycle.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusError
)

// Surface is a sandboxed viewport that can load a URL and render itself at
// a given size. Implementations own whatever resources the load acquired;
// Destroy releases them. Load blocks and is expected to be called from a
// command goroutine, never from the event loop itself.
type Surface interface {
	// Load fetches url and prepares the surface for rendering. It returns
	// a descriptive error on failure; the previous content is kept so a
	// failed reload leaves a stale rather than blank surface.
	Load(ctx context.Context, url string) error

	// Render draws the surface content into a width x height cell block.
	Render(width, height int) string

	// URL returns the most recently requested URL.
	URL() string

	// Status returns the current load state.
	Status() Status

	// Destroy releases the surface's resources. The surface must not be
	// used afterwards.
	Destroy()
}

// Factory creates a fresh surface. The pool uses it once per display entry
// and the coordinator uses it lazily for the screensaver.
type Factory func() Surface
