// Package config manages the user configuration file for upnpcast.
//
// The configuration stores two things: application preferences (scan
// timeout, broadcast fallback) and user-defined metadata for renderers
// (nicknames, last-seen hints) keyed by description URL. It deliberately
// does not persist discovery results - every scan is independent and starts
// from an empty set; only metadata the user entered survives.
//
// The file lives in the platform config directory
// ($XDG_CONFIG_HOME/upnpcast on Linux, %LOCALAPPDATA%\upnpcast on Windows)
// as YAML, and saves are atomic (write to temp file, rename).
package config
