package core

import (
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	debversion "github.com/knqyf263/go-deb-version"

	"maven-promote/internal/types"
)

// versionCache memoizes parsed version objects so the semantic ordering
// parses each candidate once per sort.
type versionCache struct {
	deb map[string]debversion.Version
}

func newVersionCache() *versionCache {
	return &versionCache{deb: map[string]debversion.Version{}}
}

// debVersion returns a parsed Debian-style version, caching the result.
func (c *versionCache) debVersion(value string) (debversion.Version, error) {
	if parsed, ok := c.deb[value]; ok {
		return parsed, nil
	}
	parsed, err := debversion.NewVersion(value)
	if err != nil {
		return debversion.Version{}, err
	}
	c.deb[value] = parsed
	return parsed, nil
}

// compare returns -1, 0, or 1 comparing two version strings. Returns 0 on
// parse errors.
func (c *versionCache) compare(a string, b string) int {
	v1, err := c.debVersion(a)
	if err != nil {
		return 0
	}
	v2, err := c.debVersion(b)
	if err != nil {
		return 0
	}
	return v1.Compare(v2)
}

// sortVersionsDescending orders candidates best-first. The lexical ordering
// compares raw strings case-insensitively, so "2.9" ranks above "2.10".
func sortVersionsDescending(candidates []string, ordering types.VersionOrdering) error {
	switch ordering {
	case types.VersionOrderingLexical, "":
		sort.SliceStable(candidates, func(i, j int) bool {
			return strings.ToLower(candidates[i]) > strings.ToLower(candidates[j])
		})
	case types.VersionOrderingSemantic:
		cache := newVersionCache()
		sort.SliceStable(candidates, func(i, j int) bool {
			return cache.compare(candidates[i], candidates[j]) > 0
		})
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported version ordering: " + string(ordering))
	}
	return nil
}
