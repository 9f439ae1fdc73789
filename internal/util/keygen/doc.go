// Package keygen generates SSH key pairs.
//
// Private keys are PEM encoded, public keys use the OpenSSH authorized_keys
// format. `hostkit keygen` uses it to create access and deploy keys; tests
// use it to stand up throwaway SSH servers.
package keygen
