// Package paths resolves the on-disk layout convention for workspaces and
// projects: <root>/Projects/<name>/<name>.mapx with a sibling storage
// container and an _Exports subfolder.
//
// The layout is a caller convention layered on top of the scaffolder, not
// part of its contract; nothing else in the tool assumes it.
package paths
