// Package testing provides test utilities, fakes, and fixtures shared by the
// provisioning tests.
//
//   - FakeExecutor: scripted remote.Executor that records every command line
//   - MockExecutor: testify mock of remote.Executor for strict expectations
//   - OptionsBuilder: fluent builder for task option maps
//
// Usage:
//
//	fake := testing.NewFakeExecutor().
//	    On("go version", testing.Fail(127, "go: not found"))
//	sess := remote.NewSession(fake, "web-1", "root")
package testing
