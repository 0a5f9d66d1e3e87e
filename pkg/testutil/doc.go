// Package testutil provides utilities for testing installer components.
//
// Key components:
//   - NewTestFS: afero-backed in-memory types.FS for fast, isolated tests
//   - FileTree: declarative directory layouts written in one call
//   - FixtureStore: a small template store with both families and bundles
//
// Usage guidelines:
//   - Prefer the in-memory FS; stages that rename directories run against
//     t.TempDir() with filesystem.NewOS()
//   - All test data should be defined inline, not in external files
package testutil
