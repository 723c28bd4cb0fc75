// Package main hosts the speakerscript CLI entrypoint and command graph.
//
// The Cobra command tree covers the full pipeline (run), assembly over
// existing diarization and transcription files (align), diarization label
// inspection (speakers), run history, dependency status, and configuration
// scaffolding. Configuration and logger construction are resolved once per
// invocation by commandContext so subcommands only deal with flags and
// output. New behavior belongs in the internal packages first.
package main
