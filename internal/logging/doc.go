// Package logging provides opt-in file-based logging with rotation for codecat.
// When the --debug flag is set, detailed logs are written to ~/.codecat/logs/
// for debugging and troubleshooting.
//
// By default (without --debug), logging stays out of the way so the progress
// display owns the terminal.
package logging
