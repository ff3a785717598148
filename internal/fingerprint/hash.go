package fingerprint

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

const (
	hashSerializationErrorTemplateConstant = "unable to serialize value for hashing: %w"
)

// SHA1HashFromData returns the hex-encoded SHA-1 digest of the canonical JSON rendering of value.
func SHA1HashFromData(value any) (string, error) {
	canonicalContent, serializationError := CanonicalJSON(value)
	if serializationError != nil {
		return "", fmt.Errorf(hashSerializationErrorTemplateConstant, serializationError)
	}

	digest := sha1.Sum(canonicalContent)
	return hex.EncodeToString(digest[:]), nil
}
