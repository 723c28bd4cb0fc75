// Package textutil normalizes recognized utterance text and derives
// filesystem-safe tokens from recording names.
package textutil
