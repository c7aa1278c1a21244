// Package fileserver serves static web pages from an fs.FS and prefers the
// precompressed .zst, .br and .gz siblings written by the precompress step.
package fileserver
