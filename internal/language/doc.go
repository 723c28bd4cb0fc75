// Package language normalizes the language codes accepted from configuration
// and flags into the ISO 639-1 form WhisperX expects.
package language
