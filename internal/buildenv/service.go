package buildenv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/maiarpkg/maiar/internal/console"
	"github.com/maiarpkg/maiar/internal/execshell"
	"github.com/maiarpkg/maiar/internal/tabular"
	"github.com/maiarpkg/maiar/internal/utils/matching"
)

const (
	dpkgListFlagConstant                = "-l"
	pipListSubcommandConstant           = "list"
	lsbReleaseAllFlagConstant           = "-a"
	dpkgUnavailableMessageConstant      = "Could not get list of installed packages from dpkg!"
	pipUnavailableMessageConstant       = "Could not get list of installed packages from pip3!"
	osVersionUnavailableMessageConstant = "could not determine Linux distribution version"
	runnerNotConfiguredMessageConstant  = "build environment command runner not configured"
	distributorPrefixConstant           = "Distributor ID:"
	releasePrefixConstant               = "Release:"
	osVersionSeparatorConstant          = ":"
	osVersionTemplateConstant           = "%s.%s"
	osVersionRunErrorTemplateConstant   = "%w: %w"
	outputLineSeparatorConstant         = "\n"
	capturedPackagesMessageConstant     = "Captured installed packages"
	logFieldSourceConstant              = "source"
	logFieldPackageCountConstant        = "package_count"
)

var (
	// ErrOSVersionUnavailable indicates lsb_release failed or omitted the distributor or release.
	ErrOSVersionUnavailable = errors.New(osVersionUnavailableMessageConstant)
	// ErrCommandRunnerNotConfigured indicates the service was constructed without a runner.
	ErrCommandRunnerNotConfigured = errors.New(runnerNotConfiguredMessageConstant)
)

// CommandOutputRunner runs an argument vector and captures its merged output.
type CommandOutputRunner interface {
	RunCommandOutput(executionContext context.Context, arguments []string, environment map[string]string, failureAllowed bool) (execshell.CapturedOutput, error)
}

type listingParser func(listing string) (map[string]string, error)

// Service captures build environment details through external commands.
type Service struct {
	logger  *zap.Logger
	runner  CommandOutputRunner
	printer *console.Printer
}

// NewService validates dependencies and constructs a Service.
func NewService(logger *zap.Logger, runner CommandOutputRunner, printer *console.Printer) (*Service, error) {
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if printer == nil {
		printer = console.NewPrinter(nil)
	}
	return &Service{logger: logger, runner: runner, printer: printer}, nil
}

// SystemEnvironment lists packages installed through dpkg.
func (service *Service) SystemEnvironment(executionContext context.Context) (Environment, error) {
	return service.captureEnvironment(executionContext, []string{string(execshell.CommandDpkg), dpkgListFlagConstant}, dpkgUnavailableMessageConstant, tabular.ParseDpkgListing)
}

// PythonEnvironment lists packages installed through pip3.
func (service *Service) PythonEnvironment(executionContext context.Context) (Environment, error) {
	return service.captureEnvironment(executionContext, []string{string(execshell.CommandPip), pipListSubcommandConstant}, pipUnavailableMessageConstant, tabular.ParsePipListing)
}

// LinuxOSVersion returns "<distributor>.<release>" lowercased, for example "ubuntu.22.04".
func (service *Service) LinuxOSVersion(executionContext context.Context) (string, error) {
	capturedOutput, runError := service.runner.RunCommandOutput(executionContext, []string{string(execshell.CommandLSBRelease), lsbReleaseAllFlagConstant}, nil, false)
	if runError != nil {
		return "", fmt.Errorf(osVersionRunErrorTemplateConstant, ErrOSVersionUnavailable, runError)
	}
	if !capturedOutput.Succeeded {
		return "", ErrOSVersionUnavailable
	}

	var distribution string
	var version string
	for _, outputLine := range strings.Split(capturedOutput.Output, outputLineSeparatorConstant) {
		if !matching.AnyStartsWith(outputLine, []string{distributorPrefixConstant, releasePrefixConstant}) {
			continue
		}
		fieldValue := strings.TrimSpace(strings.ToLower(outputLine[strings.Index(outputLine, osVersionSeparatorConstant)+1:]))
		if strings.HasPrefix(outputLine, distributorPrefixConstant) {
			distribution = fieldValue
		} else {
			version = fieldValue
		}
	}

	if len(distribution) == 0 || len(version) == 0 {
		return "", ErrOSVersionUnavailable
	}
	return fmt.Sprintf(osVersionTemplateConstant, distribution, version), nil
}

func (service *Service) captureEnvironment(executionContext context.Context, arguments []string, unavailableMessage string, parse listingParser) (Environment, error) {
	capturedOutput, runError := service.runner.RunCommandOutput(executionContext, arguments, nil, false)
	if runError != nil {
		return nil, console.WrapFatalError(unavailableMessage, runError)
	}
	if !capturedOutput.Succeeded || len(capturedOutput.Output) == 0 {
		service.printer.Print(capturedOutput.Output)
		return nil, console.NewFatalError(unavailableMessage)
	}

	parsedPackages, parseError := parse(capturedOutput.Output)
	if parseError != nil {
		return nil, console.WrapFatalError(parseError.Error(), parseError)
	}

	service.logger.Debug(capturedPackagesMessageConstant,
		zap.String(logFieldSourceConstant, arguments[0]),
		zap.Int(logFieldPackageCountConstant, len(parsedPackages)),
	)
	return Environment(parsedPackages), nil
}
