// Package cache memoizes prepared dashboard data.
//
// Results are keyed by a fingerprint of the source files (path, size and
// modification time) and the pipeline options, so edited sources produce a new
// key while unchanged sources are served from memory. Invalidate drops every
// entry explicitly; Watcher can call it when a source file changes on disk.
package cache
