package knowhaven

import "errors"

// ErrNoSnapshotPath indicates a snapshot operation was requested on an
// engine opened without a snapshot path.
var ErrNoSnapshotPath = errors.New("no snapshot path configured")
