// Package config manages user-level settings stored at
// $XDG_CONFIG_HOME/takt-sdd/config.yaml. Every key can also be set through a
// TAKT_SDD_* environment variable, e.g. TAKT_SDD_MIRROR.
package config
