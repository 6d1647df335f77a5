// Package match scores how close two identifiers are, to suggest the
// intended name when a description refers to an unknown attribute, class
// or resource.
package match
