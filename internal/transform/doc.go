// Package transform runs a gdalcmd.Command. Executors start the stages of a
// command, connect stage n's standard output to stage n+1's standard input
// and relay the tools' console output to a Feedback.
package transform
