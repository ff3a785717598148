package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/maiarpkg/maiar/internal/blobstore"
	"github.com/maiarpkg/maiar/internal/console"
	"github.com/maiarpkg/maiar/internal/execshell"
	"github.com/maiarpkg/maiar/internal/repository"
	"github.com/maiarpkg/maiar/internal/transfer"
	"github.com/maiarpkg/maiar/internal/ui"
	"github.com/maiarpkg/maiar/internal/utils"
)

const (
	applicationNameConstant                 = "maiar"
	applicationShortDescriptionConstant     = "Packaging helper for build environments and artifact repositories"
	applicationLongDescriptionConstant      = "maiar captures build environments, resolves gs:// artifact repositories, and synchronizes artifacts with retries."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	echoCommandsFlagNameConstant            = "echo-commands"
	echoCommandsFlagUsageConstant           = "Print each external command and its outcome in color."
	repositoryFlagNameConstant              = "repository"
	repositoryFlagUsageConstant             = "Artifact repository (gs://bucket); defaults to repository.maiar."
	environmentPrefixConstant               = "MAIAR"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	executorCreationErrorTemplateConstant   = "unable to create command executor: %w"
	versionTemplateConstant                 = "{{.Name}} version: {{.Version}}\n"
	developmentVersionConstant              = "(devel)"
	defaultConfigurationSearchPathConstant  = "."
)

// ApplicationOption customizes the collaborators an Application wires into its commands.
type ApplicationOption func(*Application)

// WithCommandRunner replaces the process runner used for external commands.
func WithCommandRunner(runner execshell.CommandRunner) ApplicationOption {
	return func(application *Application) {
		if runner != nil {
			application.commandRunner = runner
		}
	}
}

// WithStoreFactory replaces the blob store factory used by sync commands.
func WithStoreFactory(factory blobstore.StoreFactory) ApplicationOption {
	return func(application *Application) {
		if factory != nil {
			application.storeFactory = factory
		}
	}
}

// WithFileSystem replaces the filesystem used for marker and environment files.
func WithFileSystem(fileSystem afero.Fs) ApplicationOption {
	return func(application *Application) {
		if fileSystem != nil {
			application.fileSystem = fileSystem
		}
	}
}

// WithWorkingDirectoryProvider replaces how the working directory is resolved.
func WithWorkingDirectoryProvider(provider repository.WorkingDirectoryProvider) ApplicationOption {
	return func(application *Application) {
		if provider != nil {
			application.workingDirectoryProvider = provider
		}
	}
}

// WithOutput redirects command output and console diagnostics.
func WithOutput(output io.Writer) ApplicationOption {
	return func(application *Application) {
		if output != nil {
			application.output = output
		}
	}
}

// WithShellStreams binds the shell command to the provided streams.
func WithShellStreams(streams execshell.ShellStreams) ApplicationOption {
	return func(application *Application) {
		application.shellStreams = streams
	}
}

// WithTransferSleeper replaces the delay between transfer attempts.
func WithTransferSleeper(sleeper transfer.Sleeper) ApplicationOption {
	return func(application *Application) {
		application.transferSleeper = sleeper
	}
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand              *cobra.Command
	configurationLoader      *utils.ConfigurationLoader
	loggerFactory            *utils.LoggerFactory
	logger                   *zap.Logger
	consoleLogger            *zap.Logger
	configuration            ApplicationConfiguration
	configurationMetadata    utils.LoadedConfiguration
	configurationFilePath    string
	logLevelFlagValue        string
	logFormatFlagValue       string
	repositoryFlagValue      string
	echoCommandsFlagValue    bool
	commandContextAccessor   utils.CommandContextAccessor
	commandRunner            execshell.CommandRunner
	storeFactory             blobstore.StoreFactory
	fileSystem               afero.Fs
	workingDirectoryProvider repository.WorkingDirectoryProvider
	output                   io.Writer
	printer                  *console.Printer
	shellStreams             execshell.ShellStreams
	transferSleeper          transfer.Sleeper
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication(options ...ApplicationOption) *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:      configurationLoader,
		loggerFactory:            utils.NewLoggerFactory(),
		logger:                   zap.NewNop(),
		consoleLogger:            zap.NewNop(),
		commandContextAccessor:   utils.NewCommandContextAccessor(),
		commandRunner:            execshell.NewOSCommandRunner(),
		fileSystem:               afero.NewOsFs(),
		workingDirectoryProvider: os.Getwd,
		output:                   os.Stdout,
	}
	for _, option := range options {
		option(application)
	}
	if application.storeFactory == nil {
		application.storeFactory = application.gcsStoreFactory()
	}
	application.printer = console.NewPrinter(application.output)

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Version:       resolveVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.SetOut(application.output)
	cobraCommand.SetVersionTemplate(versionTemplateConstant)
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	cobraCommand.PersistentFlags().BoolVar(&application.echoCommandsFlagValue, echoCommandsFlagNameConstant, false, echoCommandsFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.repositoryFlagValue, repositoryFlagNameConstant, "", repositoryFlagUsageConstant)

	commandBuilders := []interface {
		Build() (*cobra.Command, error)
	}{
		&repositoryCommandBuilder{application: application},
		&environmentCommandBuilder{application: application},
		&osVersionCommandBuilder{application: application},
		&mergeCommandBuilder{application: application},
		&hashCommandBuilder{application: application},
		&runCommandBuilder{application: application},
		&shellCommandBuilder{application: application},
		&syncCommandBuilder{application: application},
	}
	for _, commandBuilder := range commandBuilders {
		subcommand, buildError := commandBuilder.Build()
		if buildError == nil {
			cobraCommand.AddCommand(subcommand)
		}
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// ExecuteWithArguments runs the command hierarchy with explicit arguments.
func (application *Application) ExecuteWithArguments(arguments []string) error {
	application.rootCommand.SetArgs(arguments)
	return application.Execute()
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, DefaultConfigurationValues(), &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	if application.persistentFlagChanged(command, echoCommandsFlagNameConstant) {
		application.configuration.Common.EchoCommands = application.echoCommandsFlagValue
	}

	if application.persistentFlagChanged(command, repositoryFlagNameConstant) {
		application.configuration.Repository.Location = application.repositoryFlagValue
	}

	loggerOutputs, loggerCreationError := application.loggerFactory.CreateLoggerOutputs(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = loggerOutputs.DiagnosticLogger
	application.consoleLogger = loggerOutputs.ConsoleLogger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		updatedContext = application.commandContextAccessor.WithRepositoryLocation(updatedContext, application.configuration.Repository.Location)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) newShellExecutor() (*execshell.ShellExecutor, error) {
	executorOptions := []execshell.ExecutorOption{
		execshell.WithPrinter(application.printer),
		execshell.WithWorkingDirectoryProvider(execshell.WorkingDirectoryProvider(application.workingDirectoryProvider)),
	}

	var commandObservers ui.CommandEventObservers
	if application.humanReadableLoggingEnabled() {
		commandObservers = append(commandObservers, ui.NewConsoleCommandEventLogger(application.consoleLogger))
	}
	if application.configuration.Common.EchoCommands {
		commandObservers = append(commandObservers, ui.NewColorCommandEventPrinter(application.printer))
	}
	if len(commandObservers) > 0 {
		executorOptions = append(executorOptions, execshell.WithCommandEventObserver(commandObservers))
	}

	executor, creationError := execshell.NewShellExecutor(application.logger, application.commandRunner, executorOptions...)
	if creationError != nil {
		return nil, fmt.Errorf(executorCreationErrorTemplateConstant, creationError)
	}
	return executor, nil
}

func (application *Application) newLocator() *repository.Locator {
	return repository.NewLocatorWithFileSystem(application.fileSystem, application.workingDirectoryProvider)
}

func (application *Application) newRetrier() *transfer.Retrier {
	retrierOptions := []transfer.RetrierOption{
		transfer.WithMaximumAttempts(application.configuration.Transfer.MaximumAttempts),
		transfer.WithBackoffUnit(application.configuration.Transfer.BackoffUnit),
		transfer.WithLogger(application.logger),
	}
	if application.transferSleeper != nil {
		retrierOptions = append(retrierOptions, transfer.WithSleeper(application.transferSleeper))
	}
	return transfer.NewRetrier(retrierOptions...)
}

func (application *Application) gcsStoreFactory() blobstore.StoreFactory {
	return lazyGCSStoreFactory{application: application}
}

type lazyGCSStoreFactory struct {
	application *Application
}

func (factory lazyGCSStoreFactory) Open(executionContext context.Context, location repository.Location) (blobstore.Store, error) {
	return blobstore.GCSStoreFactory{
		CredentialsFile: factory.application.configuration.Transfer.CredentialsFile,
		FileSystem:      factory.application.fileSystem,
	}.Open(executionContext, location)
}

func (application *Application) flushLogger() error {
	if syncError := application.syncLoggerInstance(application.logger); syncError != nil {
		return syncError
	}
	return nil
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

func resolveVersion() string {
	buildInformation, available := debug.ReadBuildInfo()
	if !available || len(buildInformation.Main.Version) == 0 {
		return developmentVersionConstant
	}
	return buildInformation.Main.Version
}
