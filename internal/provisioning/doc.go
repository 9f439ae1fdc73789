// Package provisioning provides shared types, interfaces, and orchestration for
// host provisioning tasks.
//
// # Subpackages
//
//   - django/ — application deployment, update, management commands and cache flush
//   - server/ — host preparation and toolchain installation
//
// # Core Types
//
// Task is a named, ordered list of steps bound to the option keys it requires.
// Step defines a provisioning step with Name() and Provision() methods.
// Context carries the options, the remote session, installer routines, state,
// observer and metrics for one task run against one host.
// State accumulates values derived by earlier steps (virtualenv path, certificate
// paths) for later ones.
//
// A run is a linear pipeline: options are validated before any remote command
// is issued, steps then run strictly in order and the first failing step aborts
// the rest. Nothing is rolled back; re-running the task is the recovery path.
package provisioning
