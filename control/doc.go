// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration loading, runtime metrics, and debug introspection for
// the frame pacing client.
//
// Provides:
//   - TOML-backed pacing configuration with environment overrides
//   - Prometheus collectors updated by the session handle
//   - Debug probe registration and state export
package control
