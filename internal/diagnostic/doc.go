// Package diagnostic collects the problems found while validating a
// description: errors that stop the run, warnings, and infos. Each
// diagnostic carries a stable code, the scope it was found in and, for
// unknown references, the closest known names.
package diagnostic
