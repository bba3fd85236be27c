// Package config loads, normalizes, and validates tidy configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the TIDY_TARGET_DIR environment
// override. Category names are folded to their canonical spelling so the
// organizer never has to second-guess user input.
//
// Invalid values are reported as errors rather than silently reset, so a
// typo in enabled_categories never quietly disables organizing.
package config
