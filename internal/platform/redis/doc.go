// Package redis flushes redis key namespaces over a connection opened from
// the target host, so that servers bound to the host's loopback interface can
// be reached without exposing them.
package redis
