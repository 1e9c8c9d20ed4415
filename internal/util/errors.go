// Package util holds small helpers shared by the ninep packages.
package util

import "errors"

// IsTempErr reports whether err advertises itself as temporary, the
// way net package errors do during transient Accept failures. It
// looks through wrapped errors.
func IsTempErr(err error) bool {
	var t interface{ Temporary() bool }
	return errors.As(err, &t) && t.Temporary()
}
