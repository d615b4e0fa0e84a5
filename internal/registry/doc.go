// Package registry maps capability tags to their handlers. The capability
// set is open: new tags are added by registering another handler, with no
// engine changes.
package registry
