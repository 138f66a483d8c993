// Package configuration is the raw key/value configuration store of the executor.
// Entries are kept as strings; typed lookups go through an Option, which carries the
// documented default and the deprecated keys consulted when the primary key is unset.
package configuration
