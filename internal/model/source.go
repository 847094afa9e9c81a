// Package model defines the data structures shared by the migration engine.
package model

// Path represents a file system path.
type Path string

// SourceFile is one candidate script file of an extension directory.
type SourceFile struct {
	Name string // base name, e.g. "extension.js"
	Path Path   // absolute path
	// Original is the snapshot read once from disk. It is never mutated.
	Original []byte
	// Working is the buffer after the restructure and import passes.
	Working []byte
	// Entry marks the designated entry module.
	Entry bool
}

// Candidate describes a file found in the extension directory before it is read.
type Candidate struct {
	Name  string
	Path  Path
	Entry bool
}
