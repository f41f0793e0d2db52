package adapters

import (
	"context"
	"encoding/xml"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"maven-promote/internal/ports"
	"maven-promote/internal/shared"
	"maven-promote/internal/types"
)

// MavenMetadataAdapter fetches maven-metadata.xml from the transport's base
// URL.
type MavenMetadataAdapter struct {
	Transport ports.TransportPort
}

func NewMavenMetadataAdapter(transport ports.TransportPort) MavenMetadataAdapter {
	return MavenMetadataAdapter{Transport: transport}
}

type mavenMetadataXML struct {
	XMLName    xml.Name          `xml:"metadata"`
	GroupID    string            `xml:"groupId"`
	ArtifactID string            `xml:"artifactId"`
	Versioning versioningSection `xml:"versioning"`
}

type versioningSection struct {
	Latest      string   `xml:"latest"`
	Release     string   `xml:"release"`
	LastUpdated string   `xml:"lastUpdated"`
	Versions    []string `xml:"versions>version"`
}

func (a MavenMetadataAdapter) FetchMetadata(ctx context.Context) (types.MavenMetadata, error) {
	status, body, err := a.Transport.Get(ctx, "")
	if err != nil {
		return types.MavenMetadata{}, err
	}
	if !isSuccess(status) {
		return types.MavenMetadata{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to fetch maven metadata").
			WithCause(shared.HTTPStatusErrorWithBody(status, a.Transport.BaseURL(), string(body)))
	}
	metadata, err := ParseMavenMetadata(body)
	if err != nil {
		return types.MavenMetadata{}, err
	}
	log.Debug().
		Str("url", a.Transport.BaseURL()).
		Int("versions", len(metadata.Versions)).
		Time("last_updated", metadata.LastUpdatedAt).
		Msg("maven metadata fetched")
	return metadata, nil
}

// ParseMavenMetadata decodes a maven-metadata.xml document. Blank version
// entries are dropped; everything else is kept verbatim after trimming.
func ParseMavenMetadata(data []byte) (types.MavenMetadata, error) {
	var doc mavenMetadataXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return types.MavenMetadata{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse maven metadata").
			WithCause(err)
	}
	versions := make([]string, 0, len(doc.Versioning.Versions))
	for _, version := range doc.Versioning.Versions {
		trimmed := strings.TrimSpace(version)
		if trimmed == "" {
			continue
		}
		versions = append(versions, trimmed)
	}
	return types.MavenMetadata{
		GroupID:       strings.TrimSpace(doc.GroupID),
		ArtifactID:    strings.TrimSpace(doc.ArtifactID),
		Latest:        strings.TrimSpace(doc.Versioning.Latest),
		Release:       strings.TrimSpace(doc.Versioning.Release),
		LastUpdated:   strings.TrimSpace(doc.Versioning.LastUpdated),
		LastUpdatedAt: parseLastUpdated(doc.Versioning.LastUpdated),
		Versions:      versions,
	}, nil
}

// lastUpdatedLayout is the UTC yyyyMMddHHmmss stamp Maven writes into
// <versioning><lastUpdated>.
const lastUpdatedLayout = "20060102150405"

// parseLastUpdated returns the zero time for a missing or malformed stamp so
// a sloppy index still resolves.
func parseLastUpdated(stamp string) time.Time {
	parsed, err := time.ParseInLocation(lastUpdatedLayout, strings.TrimSpace(stamp), time.UTC)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

var _ ports.MetadataPort = MavenMetadataAdapter{}
