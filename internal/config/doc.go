// Package config loads, normalizes, and validates romaudit configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and resolves relative directories against the
// scan root. The Config type centralizes every knob the engine and CLI need:
// directory layout, hashing strategy, naming tolerance, holding-area
// prefixes, and log routing.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical hash algorithm names, and clear validation
// errors.
package config
