package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/maiarpkg/maiar/cmd/cli"
	"github.com/maiarpkg/maiar/internal/console"
)

const (
	exitErrorTemplateConstant      = "%v\n"
	genericFailureExitCodeConstant = 1
)

// main executes the maiar command-line application.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}

	var exitStatus cli.ExitStatusError
	if errors.As(executionError, &exitStatus) {
		os.Exit(exitStatus.ExitCode())
	}

	var fatalError *console.FatalError
	if errors.As(executionError, &fatalError) {
		os.Exit(console.NewPrinter(os.Stdout).Fatal(fatalError.Error()).ExitCode())
	}

	fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	os.Exit(genericFailureExitCodeConstant)
}
