// Package hosttest provides an in-memory host.Host implementation for
// tests, plus builders for layer trees.
package hosttest
