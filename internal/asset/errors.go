package asset

import "fmt"

// DuplicateAssetError is returned when an asset name is registered twice.
type DuplicateAssetError struct {
	Name string
}

func (e *DuplicateAssetError) Error() string {
	return fmt.Sprintf("asset %q is already registered", e.Name)
}

// UnknownDependencyError is returned when an asset depends on a name that
// is not registered.
type UnknownDependencyError struct {
	Asset      string
	Dependency string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("asset %q depends on unknown asset %q", e.Asset, e.Dependency)
}

// UnknownSelectionError is returned when a selection names assets or groups
// that do not exist.
type UnknownSelectionError struct {
	Kind string
	Name string
}

func (e *UnknownSelectionError) Error() string {
	return fmt.Sprintf("unknown %s %q in selection", e.Kind, e.Name)
}
