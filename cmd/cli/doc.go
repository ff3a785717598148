// Package cli constructs the maiar command-line interface, wiring the Cobra
// command hierarchy, the Viper configuration loader, and zap logging around
// the build environment, repository, and transfer packages.
package cli
