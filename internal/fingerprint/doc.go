// Package fingerprint derives stable identifiers from JSON-serializable values.
//
// SHA1HashFromData hashes a canonical compact rendering whose separators and
// escaping match the default json.dumps layout used by earlier maiar releases,
// so hashes recorded in existing repositories stay valid. FormattedJSON renders
// the indented form shown to users.
package fingerprint
