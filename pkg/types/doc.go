// Package types defines the values shared by every stage of a run: the
// InstallRequest describing the user's choices, the dependency list handed to
// the installer and the FS interface the stages write through.
package types
