// Package config reads and writes the persisted versioning configuration.
//
// The versioning policy lives in a version.json file in (or above) the
// project directory. The file officially tolerates JSONC (JSON with
// comments), so this package uses github.com/tidwall/jsonc to strip comments
// before parsing with the standard encoding/json library. Writing always
// produces plain JSON; comments do not survive a rewrite.
//
// The package also loads optional tool settings from a .relprep.yaml file,
// which seeds CLI flag defaults. Settings never override explicit flags.
package config
