// Package async runs independent operations concurrently.
//
// hostkit provisions hosts one after another, but read-only work such as
// probing tool versions on every target is safe to fan out. RunParallel
// bounds the number of operations in flight and reports every failure.
package async
