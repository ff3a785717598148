package fingerprint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
)

const (
	objectOpenConstant                 = "{"
	objectCloseConstant                = "}"
	arrayOpenConstant                  = "["
	arrayCloseConstant                 = "]"
	itemSeparatorConstant              = ", "
	keySeparatorConstant               = ": "
	nullLiteralConstant                = "null"
	trueLiteralConstant                = "true"
	falseLiteralConstant               = "false"
	unicodeEscapeTemplateConstant      = "\\u%04x"
	unsupportedValueTemplateConstant   = "unsupported canonical value of type %T"
	normalizationErrorTemplateConstant = "unable to normalize value: %w"
	invalidNumberTemplateConstant      = "invalid number %q"
	fractionMarkersConstant            = ".eE"
	integralFractionSuffixConstant     = ".0"
	scientificLowerExponentConstant    = -4
	scientificUpperExponentConstant    = 16
)

// CanonicalJSON renders value as compact JSON with sorted object keys, ", " and ": "
// separators, and every non-ASCII character escaped.
func CanonicalJSON(value any) ([]byte, error) {
	normalizedValue, normalizationError := normalize(value)
	if normalizationError != nil {
		return nil, fmt.Errorf(normalizationErrorTemplateConstant, normalizationError)
	}

	var outputBuffer bytes.Buffer
	if encodeError := writeCanonicalValue(&outputBuffer, normalizedValue); encodeError != nil {
		return nil, encodeError
	}
	return outputBuffer.Bytes(), nil
}

func normalize(value any) (any, error) {
	encodedValue, marshalError := json.Marshal(value)
	if marshalError != nil {
		return nil, marshalError
	}

	decoder := json.NewDecoder(bytes.NewReader(encodedValue))
	decoder.UseNumber()

	var normalizedValue any
	if decodeError := decoder.Decode(&normalizedValue); decodeError != nil {
		return nil, decodeError
	}
	return normalizedValue, nil
}

func writeCanonicalValue(outputBuffer *bytes.Buffer, value any) error {
	switch typedValue := value.(type) {
	case nil:
		outputBuffer.WriteString(nullLiteralConstant)
	case bool:
		if typedValue {
			outputBuffer.WriteString(trueLiteralConstant)
		} else {
			outputBuffer.WriteString(falseLiteralConstant)
		}
	case json.Number:
		canonicalNumber, numberError := canonicalNumberText(typedValue)
		if numberError != nil {
			return numberError
		}
		outputBuffer.WriteString(canonicalNumber)
	case string:
		writeCanonicalString(outputBuffer, typedValue)
	case []any:
		outputBuffer.WriteString(arrayOpenConstant)
		for elementIndex, element := range typedValue {
			if elementIndex > 0 {
				outputBuffer.WriteString(itemSeparatorConstant)
			}
			if elementError := writeCanonicalValue(outputBuffer, element); elementError != nil {
				return elementError
			}
		}
		outputBuffer.WriteString(arrayCloseConstant)
	case map[string]any:
		keys := make([]string, 0, len(typedValue))
		for key := range typedValue {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		outputBuffer.WriteString(objectOpenConstant)
		for keyIndex, key := range keys {
			if keyIndex > 0 {
				outputBuffer.WriteString(itemSeparatorConstant)
			}
			writeCanonicalString(outputBuffer, key)
			outputBuffer.WriteString(keySeparatorConstant)
			if memberError := writeCanonicalValue(outputBuffer, typedValue[key]); memberError != nil {
				return memberError
			}
		}
		outputBuffer.WriteString(objectCloseConstant)
	default:
		return fmt.Errorf(unsupportedValueTemplateConstant, value)
	}
	return nil
}

// canonicalNumberText renders integers exactly and fractional or exponent forms as the shortest
// round-trip float: fixed notation with a trailing ".0" when integral, scientific notation
// outside the 1e-4 to 1e16 range (1e+16, 1.5e-05).
func canonicalNumberText(number json.Number) (string, error) {
	numberText := number.String()
	if !strings.ContainsAny(numberText, fractionMarkersConstant) {
		integerValue, parsed := new(big.Int).SetString(numberText, 10)
		if !parsed {
			return "", fmt.Errorf(invalidNumberTemplateConstant, numberText)
		}
		return integerValue.String(), nil
	}

	floatValue, parseError := strconv.ParseFloat(numberText, 64)
	if parseError != nil {
		return "", fmt.Errorf(invalidNumberTemplateConstant, numberText)
	}

	scientificText := strconv.FormatFloat(floatValue, 'e', -1, 64)
	exponent, exponentError := strconv.Atoi(scientificText[strings.IndexByte(scientificText, 'e')+1:])
	if exponentError != nil {
		return "", fmt.Errorf(invalidNumberTemplateConstant, numberText)
	}
	if exponent < scientificLowerExponentConstant || exponent >= scientificUpperExponentConstant {
		return scientificText, nil
	}

	fixedText := strconv.FormatFloat(floatValue, 'f', -1, 64)
	if !strings.Contains(fixedText, ".") {
		fixedText += integralFractionSuffixConstant
	}
	return fixedText, nil
}

func writeCanonicalString(outputBuffer *bytes.Buffer, value string) {
	var builder strings.Builder
	builder.WriteByte('"')
	for _, character := range value {
		switch character {
		case '"':
			builder.WriteString(`\"`)
		case '\\':
			builder.WriteString(`\\`)
		case '\n':
			builder.WriteString(`\n`)
		case '\r':
			builder.WriteString(`\r`)
		case '\t':
			builder.WriteString(`\t`)
		case '\b':
			builder.WriteString(`\b`)
		case '\f':
			builder.WriteString(`\f`)
		default:
			switch {
			case character > 0xffff:
				firstSurrogate, secondSurrogate := utf16.EncodeRune(character)
				builder.WriteString(fmt.Sprintf(unicodeEscapeTemplateConstant, firstSurrogate))
				builder.WriteString(fmt.Sprintf(unicodeEscapeTemplateConstant, secondSurrogate))
			case character < 0x20 || character >= 0x7f:
				builder.WriteString(fmt.Sprintf(unicodeEscapeTemplateConstant, character))
			default:
				builder.WriteRune(character)
			}
		}
	}
	builder.WriteByte('"')
	outputBuffer.WriteString(builder.String())
}
