// Package templates is the read-only catalog every generated project is
// built from. All template files are compiled into the binary via //go:embed.
//
// The embedded tree has two kinds of top-level directories:
//
//   - <family>/<mode>/ - a complete base project per template family
//     (app, default) and language mode (ts, js). Copied into the target.
//
//   - authority/ and engine/ - integration bundles. Each holds named
//     fragments (env snippet, compose snippet, JSON config) plus standalone
//     files, read individually by the integration merger.
package templates
