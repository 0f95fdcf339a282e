// Package config loads, normalizes, and validates pictowebp configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// PICTOWEBP_QUALITY, optionally sourced from a dotenv file that sits next to
// the config file. The Config type centralizes every knob the conversion
// pipeline and CLI need so output format, quality, worker count, and batching
// factor are resolved in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical formats, and clear validation errors.
package config
