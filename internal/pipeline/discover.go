package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
)

var errNotDir = errors.New("not a directory")

// Discover lists the page sources directly inside dir, sorted by name.
// Subdirectories are not descended into.
func Discover(dir string) ([]PageRef, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &DiscoveryError{Dir: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &DiscoveryError{Dir: dir, Err: errNotDir}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DiscoveryError{Dir: dir, Err: err}
	}

	var refs []PageRef
	for _, entry := range entries {
		if entry.IsDir() || !IsPageName(entry.Name()) {
			continue
		}
		ref, err := ParsePagePath(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}
