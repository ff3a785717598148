package tabular

import (
	"errors"
	"fmt"
)

const (
	separatorNotFoundMessageConstant         = "did not find separator line"
	separatorUnparsableErrorTemplateConstant = "could not parse separator line while parsing %s output: %s"
	separatorMissingErrorTemplateConstant    = "%s output: %w"
)

// ErrSeparatorNotFound indicates a data row appeared before any separator row.
var ErrSeparatorNotFound = errors.New(separatorNotFoundMessageConstant)

// ListingFormat names the tool whose output is being parsed.
type ListingFormat string

// Supported listing formats.
const (
	ListingFormatDpkg ListingFormat = ListingFormat("dpkg")
	ListingFormatPip  ListingFormat = ListingFormat("pip3")
)

// SeparatorError reports a separator row without enough column boundaries.
type SeparatorError struct {
	Format ListingFormat
	Line   string
}

// Error describes the unparsable separator row.
func (separatorError SeparatorError) Error() string {
	return fmt.Sprintf(separatorUnparsableErrorTemplateConstant, separatorError.Format, separatorError.Line)
}

func separatorNotFoundError(format ListingFormat) error {
	return fmt.Errorf(separatorMissingErrorTemplateConstant, format, ErrSeparatorNotFound)
}
