// Package file provides a file-based configuration adapter.
// Configuration lives in a TOML file under ~/.sopsearch and is
// flattened to dot-notation keys for lookup.
package file
