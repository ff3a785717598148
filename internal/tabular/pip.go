package tabular

import "strings"

const (
	pipSeparatorPrefixConstant   = "-"
	pipBoundaryCharacterConstant = " "
	pipHeaderPrefixConstant      = "Package "
)

// ParsePipListing maps package names to versions from pip3 list output.
//
// The first row starting with "-" is the dashed separator; the spaces inside it
// mark the column boundaries. The header row and the separator row are skipped.
func ParsePipListing(listing string) (map[string]string, error) {
	packageVersions := map[string]string{}
	var boundaries []int

	for _, line := range strings.Split(listing, lineSeparatorConstant) {
		line = strings.TrimRight(line, "\r")

		if boundaries == nil && strings.HasPrefix(line, pipSeparatorPrefixConstant) {
			boundaries = IndexesOf(line, pipBoundaryCharacterConstant, 0)
			if len(boundaries) < 1 {
				return nil, SeparatorError{Format: ListingFormatPip, Line: line}
			}
			continue
		}

		if len(strings.TrimSpace(line)) == 0 || strings.HasPrefix(line, pipHeaderPrefixConstant) {
			continue
		}

		if boundaries == nil {
			return nil, separatorNotFoundError(ListingFormatPip)
		}

		packageName := sliceColumn(line, 0, boundaries[0])
		packageVersion := sliceColumn(line, boundaries[0]+1, len(line))
		packageVersions[packageName] = packageVersion
	}

	return packageVersions, nil
}
