package tabular

import "strings"

const (
	dpkgSeparatorPrefixConstant      = "+"
	dpkgBoundaryCharacterConstant    = "-"
	dpkgInstalledPrefixConstant      = "i"
	dpkgMinimumBoundaryCountConstant = 4
	lineSeparatorConstant            = "\n"
)

// ParseDpkgListing maps installed package names to versions from dpkg -l output.
//
// The first row starting with "+" defines the column boundaries. Rows starting
// with "i" are installed packages; every other row is ignored. Later rows
// overwrite earlier rows with the same name.
func ParseDpkgListing(listing string) (map[string]string, error) {
	packageVersions := map[string]string{}
	var boundaries []int

	for _, line := range strings.Split(listing, lineSeparatorConstant) {
		line = strings.TrimRight(line, "\r")

		if boundaries == nil && strings.HasPrefix(line, dpkgSeparatorPrefixConstant) {
			boundaries = IndexesOf(line, dpkgBoundaryCharacterConstant, 0)
			if len(boundaries) < dpkgMinimumBoundaryCountConstant {
				return nil, SeparatorError{Format: ListingFormatDpkg, Line: line}
			}
		}

		if !strings.HasPrefix(line, dpkgInstalledPrefixConstant) {
			continue
		}

		if boundaries == nil {
			return nil, separatorNotFoundError(ListingFormatDpkg)
		}

		packageName := sliceColumn(line, boundaries[0]+1, boundaries[1])
		packageVersion := sliceColumn(line, boundaries[1]+1, boundaries[2])
		packageVersions[packageName] = packageVersion
	}

	return packageVersions, nil
}
