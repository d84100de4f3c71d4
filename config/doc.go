// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct
// tags. Every field has a working default, so an empty file yields a
// gateway pointed at the public MTA endpoints.
package config
