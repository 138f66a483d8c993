// Package executor resolves the runtime configuration of an executor process.
//
// A Resolver reads the raw configuration once at startup and produces a RuntimeConfig:
// slot count, resource profiles, temporary directories, RPC and slot timeouts, the
// registration deadline, log file locations and the registration retry policy. The
// external address and working directory are supplied by the caller and stored as is.
//
// Optional values are exposed as (value, ok) pairs. An absent registration deadline
// means the executor keeps trying to register forever.
package executor
