// Package syncs provides synchronization primitives used across the
// application.
package syncs
