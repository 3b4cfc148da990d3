// Package config loads, normalizes, and validates espaform configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// ESPAFORM_S3_BUCKET. The Config type centralizes every knob the CLI needs,
// allowing work/output directories and external tool settings to be
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
