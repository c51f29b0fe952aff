// Package version provides version information for the application.
//
// Values are resolved from the build info embedded by the Go toolchain, so
// builds straight from a source checkout still report a usable revision.
package version
