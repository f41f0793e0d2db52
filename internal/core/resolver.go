package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"maven-promote/internal/ports"
	"maven-promote/internal/shared"
	"maven-promote/internal/types"
)

type VersionResolver struct {
	Metadata ports.MetadataPort
	Ordering types.VersionOrdering
}

func NewVersionResolver(metadata ports.MetadataPort, ordering types.VersionOrdering) VersionResolver {
	if ordering == "" {
		ordering = types.VersionOrderingLexical
	}
	return VersionResolver{
		Metadata: metadata,
		Ordering: ordering,
	}
}

// Resolve fetches the repository metadata and selects the version that
// best satisfies identifier.
func (r VersionResolver) Resolve(ctx context.Context, identifier string) (types.ResolvedVersion, error) {
	if r.Metadata == nil {
		return types.ResolvedVersion{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("version resolver requires a metadata port")
	}
	metadata, err := r.Metadata.FetchMetadata(ctx)
	if err != nil {
		return types.ResolvedVersion{}, err
	}
	version, err := SelectVersion(identifier, metadata, r.Ordering)
	if err != nil {
		return types.ResolvedVersion{}, err
	}
	log.Debug().
		Str("identifier", identifier).
		Str("artifact", metadata.ArtifactID).
		Int("versions", len(metadata.Versions)).
		Str("version", version).
		Msg("version resolved")
	return types.ResolvedVersion{
		Identifier:        identifier,
		Version:           version,
		MetadataUpdatedAt: metadata.LastUpdatedAt,
	}, nil
}

// SelectVersion picks one version out of metadata for identifier.
//
// "latest" and "weekly" return the server-declared latest and release
// pointers without looking at the index. "stable" considers index entries
// with exactly three components and, under the lexical ordering, takes the
// last one in index order since the index lists releases as published. Any other identifier keeps the entries that
// contain it as a substring. Candidates are then ordered best-first and the
// first one wins.
func SelectVersion(identifier string, metadata types.MavenMetadata, ordering types.VersionOrdering) (string, error) {
	id := strings.TrimSpace(identifier)
	if id == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("version identifier is empty")
	}
	switch id {
	case types.IdentifierLatest:
		return declaredPointer("latest", metadata.Latest)
	case types.IdentifierWeekly:
		return declaredPointer("release", metadata.Release)
	case types.IdentifierStable:
		return stableVersion(metadata.Versions, ordering)
	}
	return bestVersion(filterContaining(id, metadata.Versions), ordering)
}

func declaredPointer(name string, value string) (string, error) {
	version := strings.TrimSpace(value)
	if version == "" {
		return "", shared.ResolutionError(fmt.Sprintf("metadata declares no %s version", name))
	}
	return version, nil
}

func bestVersion(candidates []string, ordering types.VersionOrdering) (string, error) {
	if len(candidates) == 0 {
		return "", shared.ResolutionError("Empty versions list")
	}
	if err := sortVersionsDescending(candidates, ordering); err != nil {
		return "", err
	}
	return candidates[0], nil
}

func stableVersion(index []string, ordering types.VersionOrdering) (string, error) {
	candidates := filterStable(index)
	if ordering == types.VersionOrderingSemantic {
		return bestVersion(candidates, ordering)
	}
	if ordering != types.VersionOrderingLexical && ordering != "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported version ordering: " + string(ordering))
	}
	if len(candidates) == 0 {
		return "", shared.ResolutionError("Empty versions list")
	}
	return candidates[len(candidates)-1], nil
}

func filterContaining(identifier string, index []string) []string {
	var out []string
	for _, version := range index {
		if strings.Contains(version, identifier) {
			out = append(out, version)
		}
	}
	return out
}

func filterStable(index []string) []string {
	var out []string
	for _, version := range index {
		if len(strings.Split(version, ".")) == 3 {
			out = append(out, version)
		}
	}
	return out
}
