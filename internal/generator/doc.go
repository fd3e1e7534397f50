// Package generator runs a generation pass: it resolves the sources, then
// for every file reads, splits, renders and writes a page, and finally
// copies the layout assets into the output directory.
//
// Files are processed one after another in the order the sources resolved.
// The context is checked between files; a canceled run leaves the pages
// written so far in place and skips the asset copy.
package generator
