package fingerprint_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maiarpkg/maiar/internal/fingerprint"
)

type packageRecord struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func TestSHA1HashFromData(testInstance *testing.T) {
	testCases := []struct {
		name              string
		value             any
		expectedCanonical string
		expectedHash      string
	}{
		{
			name:              "single_key",
			value:             map[string]string{"Test": "value"},
			expectedCanonical: `{"Test": "value"}`,
			expectedHash:      "af288b8982cd79d2a1f26623d9c9b7bcbfeff277",
		},
		{
			name:              "nested_values_sorted",
			value:             map[string]any{"b": []any{1, 2, map[string]any{"c": nil}}, "a": true},
			expectedCanonical: `{"a": true, "b": [1, 2, {"c": null}]}`,
			expectedHash:      "eaa94d65f9ef3f9df64d3361c4aaa70efe630791",
		},
		{
			name:              "non_ascii_escaped",
			value:             map[string]string{"name": "café"},
			expectedCanonical: `{"name": "caf\u00e9"}`,
			expectedHash:      "047161d53f08025da7e43c499c9681eddbada31f",
		},
		{
			name: "decoded_numbers_render_as_floats",
			value: map[string]any{
				"small":    json.Number("1.5e-5"),
				"big":      json.Number("1e16"),
				"exponent": json.Number("1e5"),
				"fraction": json.Number("2.50"),
				"integer":  json.Number("-0"),
				"tiny":     json.Number("0.0001"),
				"zero":     json.Number("0.0"),
			},
			expectedCanonical: `{"big": 1e+16, "exponent": 100000.0, "fraction": 2.5, "integer": 0, "small": 1.5e-05, "tiny": 0.0001, "zero": 0.0}`,
			expectedHash:      "b522e16ae128f60e2428e198d949839237c8ea41",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			canonicalContent, canonicalError := fingerprint.CanonicalJSON(testCase.value)
			require.NoError(testInstance, canonicalError)
			require.Equal(testInstance, testCase.expectedCanonical, string(canonicalContent))

			hashValue, hashError := fingerprint.SHA1HashFromData(testCase.value)
			require.NoError(testInstance, hashError)
			require.Equal(testInstance, testCase.expectedHash, hashValue)
		})
	}
}

func TestSHA1HashFromDataIsStableForStructs(testInstance *testing.T) {
	firstHash, firstError := fingerprint.SHA1HashFromData(packageRecord{Name: "apt", Version: "2.0.9"})
	require.NoError(testInstance, firstError)

	secondHash, secondError := fingerprint.SHA1HashFromData(map[string]string{"version": "2.0.9", "name": "apt"})
	require.NoError(testInstance, secondError)

	require.Equal(testInstance, firstHash, secondHash)
}

func TestSHA1HashFromDataRejectsUnsupportedValues(testInstance *testing.T) {
	_, hashError := fingerprint.SHA1HashFromData(make(chan int))
	require.Error(testInstance, hashError)
}

func TestFormattedJSON(testInstance *testing.T) {
	formattedValue, formatError := fingerprint.FormattedJSON(map[string]string{"test": "value"})
	require.NoError(testInstance, formatError)
	require.Equal(testInstance, "{\n    \"test\": \"value\"\n}", formattedValue)

	nestedValue, nestedError := fingerprint.FormattedJSON(map[string]any{"b": map[string]any{"z": 1, "a": []int{1, 2}}, "a": "x"})
	require.NoError(testInstance, nestedError)
	require.Equal(testInstance, "{\n    \"a\": \"x\",\n    \"b\": {\n        \"a\": [\n            1,\n            2\n        ],\n        \"z\": 1\n    }\n}", nestedValue)
}
