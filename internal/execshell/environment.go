package execshell

import (
	"fmt"
	"sort"
	"strings"
)

const (
	environmentAssignmentSeparatorConstant = "="
	environmentAssignmentTemplateConstant  = "%s%s%s"
	workingDirectoryVariableNameConstant   = "PWD"
)

// OverlayEnvironment returns inherited with overlay assignments appended in key order.
// Later assignments win when the child process resolves duplicate keys.
func OverlayEnvironment(inherited []string, overlay map[string]string) []string {
	mergedEnvironment := append([]string{}, inherited...)

	overlayKeys := make([]string, 0, len(overlay))
	for environmentKey := range overlay {
		overlayKeys = append(overlayKeys, environmentKey)
	}
	sort.Strings(overlayKeys)

	for _, environmentKey := range overlayKeys {
		mergedEnvironment = append(mergedEnvironment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, environmentAssignmentSeparatorConstant, overlay[environmentKey]))
	}
	return mergedEnvironment
}

// withWorkingDirectoryVariable returns a copy of environment that also sets PWD to workingDirectory.
// An explicit PWD in environment takes precedence. Empty overlays stay empty so the child inherits unchanged.
func withWorkingDirectoryVariable(environment map[string]string, workingDirectory string) map[string]string {
	if len(environment) == 0 {
		return nil
	}

	overlay := make(map[string]string, len(environment)+1)
	if len(strings.TrimSpace(workingDirectory)) > 0 {
		overlay[workingDirectoryVariableNameConstant] = workingDirectory
	}
	for environmentKey, environmentValue := range environment {
		overlay[environmentKey] = environmentValue
	}
	return overlay
}
