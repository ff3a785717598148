package buildenv

import "fmt"

const (
	duplicateKeyErrorTemplateConstant = "%s specified twice!"
)

// DuplicateKeyError reports a key supplied by both sides of a strict merge.
type DuplicateKeyError struct {
	Key string
}

// Error describes the duplicated key.
func (duplicateError DuplicateKeyError) Error() string {
	return fmt.Sprintf(duplicateKeyErrorTemplateConstant, duplicateError.Key)
}

// MergeResult is the outcome of StrictMerge.
type MergeResult struct {
	Merged      Environment
	Conflict    string
	HasConflict bool
}

// Err returns DuplicateKeyError when the merge stopped on a conflict.
func (result MergeResult) Err() error {
	if !result.HasConflict {
		return nil
	}
	return DuplicateKeyError{Key: result.Conflict}
}

// StrictMerge inserts additions into destination in key order and stops at the first key
// destination already holds. Keys inserted before the conflict stay in destination and the
// conflicting key keeps its original value. A nil destination is allocated.
func StrictMerge(destination Environment, additions Environment) MergeResult {
	if destination == nil {
		destination = Environment{}
	}

	for _, packageName := range additions.SortedNames() {
		if _, exists := destination[packageName]; exists {
			return MergeResult{Merged: destination, Conflict: packageName, HasConflict: true}
		}
		destination[packageName] = additions[packageName]
	}

	return MergeResult{Merged: destination}
}
