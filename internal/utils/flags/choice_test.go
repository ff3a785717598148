package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(t *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "DefaultFirstChoice",
			defaultChoice:  "json",
			choices:        []string{"json", "yaml"},
			description:    "Render the build environment.",
			expectedOutput: "`<JSON|yaml>` Render the build environment.",
		},
		{
			name:           "DefaultSecondChoice",
			defaultChoice:  "console",
			choices:        []string{"structured", "console"},
			description:    "Log format.",
			expectedOutput: "`<structured|CONSOLE>` Log format.",
		},
		{
			name:           "DuplicatesAndBlanksRemoved",
			defaultChoice:  "yaml",
			choices:        []string{"json", " ", "JSON", "yaml"},
			description:    "",
			expectedOutput: "`<json|YAML>`",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expectedOutput, FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description))
		})
	}
}

func TestResolveChoice(t *testing.T) {
	choices := []string{"json", "yaml"}

	resolvedValue, resolveError := ResolveChoice(" YAML ", "json", choices)
	require.NoError(t, resolveError)
	require.Equal(t, "yaml", resolvedValue)

	defaultValue, defaultError := ResolveChoice("", "json", choices)
	require.NoError(t, defaultError)
	require.Equal(t, "json", defaultValue)

	_, unsupportedError := ResolveChoice("toml", "json", choices)
	require.Error(t, unsupportedError)
	require.Contains(t, unsupportedError.Error(), "json, yaml")
}
