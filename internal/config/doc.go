// Package config holds the lintsweep configuration: defaults, CLI-derived
// settings, the optional .lintsweep.yaml file with per-target overrides,
// and validation of the combined result.
package config
