// Package filesystem provides filesystem implementations for the installer.
//
// This package contains implementations of the types.FS interface,
// the OS filesystem used at runtime and an afero-backed one used by tests,
// plus the small write helpers every pipeline stage shares.
package filesystem
