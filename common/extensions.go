package common

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// CompiledSuffix is appended to a source file name to form its output name.
const CompiledSuffix = ".spv"

// DefaultExtensions are the shader source extensions recognized when none are
// configured.
var DefaultExtensions = []string{"frag", "vert", "geo", "geom", "comp", "vertex", "fragment", "tess"}

// ExtensionSet is a case-insensitive set of file extensions without the
// leading dot.
type ExtensionSet map[string]struct{}

func NewExtensionSet(extensions ...string) ExtensionSet {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	normalized := lo.FilterMap(extensions, func(ext string, _ int) (string, bool) {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		return ext, ext != ""
	})

	set := make(ExtensionSet, len(normalized))
	for _, ext := range lo.Uniq(normalized) {
		set[ext] = struct{}{}
	}

	return set
}

// Matches reports whether the final extension of path is in the set.
func (s ExtensionSet) Matches(path string) bool {
	ext := filepath.Ext(path)
	if ext == "" || ext == "." {
		return false
	}

	_, ok := s[strings.ToLower(ext[1:])]
	return ok
}

// List returns the extensions in sorted order.
func (s ExtensionSet) List() []string {
	list := lo.Keys(s)
	sort.Strings(list)

	return list
}
