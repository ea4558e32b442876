package batch

import "errors"

var (
	// ErrConfig is returned when a required input path is missing.
	ErrConfig = errors.New("missing input")
	// ErrLoad wraps failures reading the spreadsheet or the template.
	ErrLoad = errors.New("load failed")
	// ErrRender wraps failures merging or saving a row's document.
	ErrRender = errors.New("render failed")
	// ErrFilesystem wraps failures creating or cleaning up files.
	ErrFilesystem = errors.New("filesystem error")
	// ErrRunning is returned when Run is called while a run is in progress.
	ErrRunning = errors.New("batch already running")
)
