// Package config loads workspace preferences from a YAML file. Every
// field has a sensible default so a workspace without a config file works
// out of the box.
package config
