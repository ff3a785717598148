// Package matching offers small membership and prefix predicates over string collections.
package matching

import "strings"

// AnyIn reports whether any candidate is a member of within.
func AnyIn(candidates []string, within []string) bool {
	members := make(map[string]struct{}, len(within))
	for _, member := range within {
		members[member] = struct{}{}
	}
	for _, candidate := range candidates {
		if _, found := members[candidate]; found {
			return true
		}
	}
	return false
}

// AnyStartsWith reports whether element starts with any of prefixes.
func AnyStartsWith(element string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(element, prefix) {
			return true
		}
	}
	return false
}

// AnyStartsWithAny reports whether any element starts with any of prefixes.
func AnyStartsWithAny(elements []string, prefixes []string) bool {
	for _, element := range elements {
		if AnyStartsWith(element, prefixes) {
			return true
		}
	}
	return false
}
