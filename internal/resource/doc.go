// Package resource provides the location model shared by readers, cursors
// and alignment functions.
//
// A position inside a resource is a Position: an ordered tuple of Index
// values, one per Path step. A Path is made of bound steps (a fixed array
// offset or object key) and range steps ("nary" steps) that may match more
// than one position.
//
// # Path Syntax
//
// Paths are written as expressions rooted at "$":
//   - "$.rows"            string key
//   - "$[\"first name\"]" quoted string key
//   - "$[3]"              integer key
//   - "$[1:]"             range from 1 to the end of the container
//   - "$[0:10:2]"         range with explicit end and step
//   - "$[1:-1]"           range whose end is an offset from the container length
//   - "$[*]"              shorthand for "[0:]"
//
// Values read from a resource use the closed Value union.
package resource
