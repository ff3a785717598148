package fingerprint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	formattedIndentConstant                = "    "
	formattedSerializationTemplateConstant = "unable to format value as JSON: %w"
)

// FormattedJSON renders value as JSON indented by four spaces with sorted object keys.
func FormattedJSON(value any) (string, error) {
	normalizedValue, normalizationError := normalize(value)
	if normalizationError != nil {
		return "", fmt.Errorf(formattedSerializationTemplateConstant, normalizationError)
	}

	var outputBuffer bytes.Buffer
	encoder := json.NewEncoder(&outputBuffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", formattedIndentConstant)
	if encodeError := encoder.Encode(normalizedValue); encodeError != nil {
		return "", fmt.Errorf(formattedSerializationTemplateConstant, encodeError)
	}

	return strings.TrimSuffix(outputBuffer.String(), "\n"), nil
}
