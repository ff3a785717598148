// Package tabular parses fixed-column listings printed by package managers.
//
// The parsers locate a separator row, derive column boundaries from it, and
// slice each data row into a name and a version. Input is expected to be the
// trusted, locale-stable output of dpkg -l and pip3 list.
package tabular
