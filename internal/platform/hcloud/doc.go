// Package hcloud resolves Hetzner Cloud servers to the addresses hostkit
// connects to.
//
// Servers are looked up by name or by label selector (for example
// "role=web,env=prod"). Rate-limited API calls are retried with exponential
// backoff; every other API error is returned as is.
//
// The API token is read from HCLOUD_TOKEN.
package hcloud
