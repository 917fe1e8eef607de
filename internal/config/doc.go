// Package config resolves guard settings for the command-line tools from an
// optional JSON/YAML file and MAXSUBMIT_* environment variables.
package config
