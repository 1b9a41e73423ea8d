// Package config loads, normalizes, and validates subocr configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the environment fallbacks the
// original tooling used (INPUT_DIR, TESSDATA_PREFIX, and friends). The
// Config type centralizes every knob the CLI needs: directories, language
// codes, external tool locations, and rip flags passed through to pgsrip.
//
// Unknown keys in a stored file are dropped during decoding rather than
// raising an error, so configs written by a newer version still load.
package config
