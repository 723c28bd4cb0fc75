// Package services defines shared utilities consumed by the pipeline stages
// and the external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, recording names, and stage names
//     for logging.
//   - Structured error markers plus the Wrap helper that let the CLI map a
//     failure to an exit code and the history store to a failure kind.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
