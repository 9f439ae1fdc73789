// Package server provides host preparation and toolchain tasks: prep
// (environment fixes every deployment needs), golang (Go toolchain) and
// python-tools (pip plus poetry or pipenv).
package server
