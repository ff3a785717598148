package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	commandWithArgumentsTemplateConstant    = "%s %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	dpkgListFlagConstant                    = "-l"
	pipListSubcommandConstant               = "list"
	lsbReleaseAllFlagConstant               = "-a"
)

const (
	dpkgListStartTemplateConstant              = "Listing installed system packages%s"
	dpkgListSuccessTemplateConstant            = "Listed installed system packages%s"
	dpkgListFailureTemplateConstant            = "Failed to list installed system packages%s (exit code %d%s)"
	dpkgListExecutionFailureTemplateConstant   = "Unable to list installed system packages%s: %s"
	pipListStartTemplateConstant               = "Listing installed Python packages%s"
	pipListSuccessTemplateConstant             = "Listed installed Python packages%s"
	pipListFailureTemplateConstant             = "Failed to list installed Python packages%s (exit code %d%s)"
	pipListExecutionFailureTemplateConstant    = "Unable to list installed Python packages%s: %s"
	lsbReleaseStartTemplateConstant            = "Detecting Linux distribution%s"
	lsbReleaseSuccessTemplateConstant          = "Detected Linux distribution%s"
	lsbReleaseFailureTemplateConstant          = "Failed to detect Linux distribution%s (exit code %d%s)"
	lsbReleaseExecutionFailureTemplateConstant = "Unable to detect Linux distribution%s: %s"
)

type stageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

var recognizedInvocations = []struct {
	name      CommandName
	arguments []string
	templates stageTemplates
}{
	{
		name:      CommandDpkg,
		arguments: []string{dpkgListFlagConstant},
		templates: stageTemplates{dpkgListStartTemplateConstant, dpkgListSuccessTemplateConstant, dpkgListFailureTemplateConstant, dpkgListExecutionFailureTemplateConstant},
	},
	{
		name:      CommandPip,
		arguments: []string{pipListSubcommandConstant},
		templates: stageTemplates{pipListStartTemplateConstant, pipListSuccessTemplateConstant, pipListFailureTemplateConstant, pipListExecutionFailureTemplateConstant},
	},
	{
		name:      CommandLSBRelease,
		arguments: []string{lsbReleaseAllFlagConstant},
		templates: stageTemplates{lsbReleaseStartTemplateConstant, lsbReleaseSuccessTemplateConstant, lsbReleaseFailureTemplateConstant, lsbReleaseExecutionFailureTemplateConstant},
	},
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	for _, invocation := range recognizedInvocations {
		if invocation.name == command.Name && argumentsEqual(invocation.arguments, command.Details.Arguments) {
			return formatter.describeRecognizedMessage(invocation.templates, command, result, failure, stage)
		}
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeRecognizedMessage(templates stageTemplates, command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, workingDirectorySuffix)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, workingDirectorySuffix)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, workingDirectorySuffix, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, workingDirectorySuffix, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf(commandWithArgumentsTemplateConstant, commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func argumentsEqual(expected []string, actual []string) bool {
	if len(expected) != len(actual) {
		return false
	}
	for argumentIndex := range expected {
		if strings.TrimSpace(actual[argumentIndex]) != expected[argumentIndex] {
			return false
		}
	}
	return true
}
