package buildenv

import "sort"

// Environment maps package names to installed versions.
type Environment map[string]string

// SortedNames returns the package names in lexical order.
func (environment Environment) SortedNames() []string {
	packageNames := make([]string, 0, len(environment))
	for packageName := range environment {
		packageNames = append(packageNames, packageName)
	}
	sort.Strings(packageNames)
	return packageNames
}
