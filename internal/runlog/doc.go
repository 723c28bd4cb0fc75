// Package runlog locates and reads the per-run JSON log files the pipeline
// writes under <work_dir>/<recording>/logs/<run-id>.log.
//
// Find resolves a full or abbreviated run ID to its file. Tail returns the
// last lines and an offset that Follow continues from, and Format turns a
// JSON record back into a single readable line.
package runlog
