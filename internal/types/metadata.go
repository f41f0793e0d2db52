package types

import "time"

// MavenMetadata is the subset of maven-metadata.xml the resolver reads.
// LastUpdatedAt is zero when lastUpdated is absent or unparsable.
type MavenMetadata struct {
	GroupID       string
	ArtifactID    string
	Latest        string
	Release       string
	LastUpdated   string
	LastUpdatedAt time.Time
	Versions      []string
}

// ResolvedVersion is the outcome of resolving an identifier against the
// metadata index.
type ResolvedVersion struct {
	Identifier        string
	Version           string
	MetadataUpdatedAt time.Time
}
