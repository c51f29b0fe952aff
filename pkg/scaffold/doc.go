// Package scaffold produces new projects from a template: copy, storage
// container setup, home folder assignment, and folder connection
// reconciliation, persisted in a single pass.
//
// Scaffolding is a one-shot, single-operator operation. The destination
// check in Scaffold is check-then-create and therefore racy against
// concurrent external modification; concurrent invocation against the same
// target path is not a supported scenario.
package scaffold
