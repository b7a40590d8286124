// Package app wires the extraction engine together: it builds the logger and
// registry, registers the compiled-in feature node modules, loads the
// pipeline manifest and optional profile, assembles the execution context,
// and drives the executor. It is the only package that knows about every
// other layer.
package app
