// Package bundles layers the optional integrations onto a generated project.
//
// Each integration reads its fragments from the template store and returns a
// Contribution: directories to create, standalone files, and fragments of
// the shared environment file and container manifest. Nothing is written
// until Merge combines every contribution at once. Fragments are ordered by
// a fixed integration rank, so the merged output does not depend on the
// order contributions are passed in.
//
// The JSON configs are typed. A section that only makes sense when the other
// integration is enabled is cleared before the config is serialized.
package bundles
