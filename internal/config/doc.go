// Package config loads, normalizes, and validates speakerscript configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, overlays a local .env file, and honours environment fallbacks
// such as HUGGINGFACE_TOKEN. The Config type centralizes every knob the
// pipeline and CLI need.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical enum values, and clear validation errors.
package config
