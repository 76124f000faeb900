// Package utils holds input validation and content hashing shared by the
// catalog and the session.
package utils
