// Package watch re-runs checks while the live documentation is being edited.
//
// A Watcher follows the docs tree and the sidebar file with fsnotify and
// hands debounced batches of changed paths to a callback. A Scheduler runs a
// periodic job with gocron, used by `docsnap watch` for snapshot verification.
package watch
