// Package tui renders progress for long-running project operations. Each
// operation wrapper subscribes to the underlying worker's events and
// forwards them to a bubbletea program, so the worker stays free of any
// terminal concerns.
package tui
