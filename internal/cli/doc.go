// Package cli parses the featuregrid command line into an app.Config.
package cli
