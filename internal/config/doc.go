// Package config holds the options a provisioning task runs with.
//
// [Options] is a flat mapping of string keys to scalar or list values, read
// from a YAML options file, an optional dotenv secrets file and --set
// overrides, in that order. Every task declares a [Schema]; [Schema.Validate]
// is the gate that runs before any remote command is issued and reports all
// missing keys at once in a [ConfigurationError].
package config
