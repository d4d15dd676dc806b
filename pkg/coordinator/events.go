package coordinator

import "gitlab.com/tinyland/lab/signpost/pkg/config"

// Events are appended to the coordinator's outbox as operations run and
// drained by the host after each operation. Each external event maps to
// exactly one coordinator operation, so the outbox is the only place
// presentation changes become visible.

// ConfigLoaded announces the startup configuration, emitted once during
// Initialize before the first view mounts.
type ConfigLoaded struct {
	Config *config.Config
}

// ViewChanged announces that a content surface was mounted.
type ViewChanged struct {
	Index      int
	URL        string
	Background string
}

// ScreensaverShown announces the screensaver surface was mounted. URL is
// the resolved address (quotes:// already rewritten).
type ScreensaverShown struct {
	URL string
}

// ScreensaverHidden announces the return to content mode.
type ScreensaverHidden struct{}

// SurfaceLoaded reports a successful content load at an index.
type SurfaceLoaded struct {
	Index int
	URL   string
}

// SurfaceError reports a failed content load. The coordinator does not
// retry; the stale surface stays mounted and the host shows the error.
type SurfaceError struct {
	Index       int
	URL         string
	Description string
}

// ScreensaverLoaded reports a successful screensaver load.
type ScreensaverLoaded struct {
	URL string
}

// ScreensaverError reports a failed screensaver load.
type ScreensaverError struct {
	URL         string
	Description string
}

// ConfigReloaded announces a wholesale configuration replacement. The
// surface pool has already been rebuilt when this is emitted.
type ConfigReloaded struct {
	Config *config.Config
}
