// Package internalcheck holds static policy tests over the packages that
// handle secret scalars and shared secrets. It has no exported API.
package internalcheck
