// Package merge combines the service accounts of all matching exceptions
// into one conflict-checked list.
package merge
