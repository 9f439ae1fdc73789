// Package ensure provides idempotent installer routines that converge a
// remote host towards a desired state: packages, toolchains, databases,
// files, and nginx and supervisor configuration.
//
// Every routine first inspects the host and only changes what is missing,
// so re-running a partially applied task is safe. Routines that depend on a
// tool version consult the prerequisites checker before downloading
// anything.
package ensure
