// Package config loads the TOML settings shared by every workjournal binary.
//
// Values are layered: built-in defaults, then the config file, then a .env file
// and WORKJOURNAL_* environment variables. Paths are expanded to absolute form
// and the work week is resolved into a domain.WorkWeekConfig on demand.
package config
