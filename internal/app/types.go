package app

import (
	"time"

	"maven-promote/internal/types"
)

type ResolveRequest struct {
	Identifier string
	Ordering   types.VersionOrdering
}

type ResolveResult struct {
	Identifier string
	Version    string
	// MetadataUpdatedAt is the index's lastUpdated stamp, zero when absent.
	MetadataUpdatedAt time.Time
}

// ActionOptions are shared by both promotion commands.
type ActionOptions struct {
	Mode           types.PromotionMode
	DryRun         bool
	SuppressLayout bool
	FailFast       bool
	ReportPath     string
	LockPath       string
}

type PromoteRequest struct {
	// Version is used verbatim unless Resolve is set, in which case it is
	// an identifier resolved against the metadata index first.
	Version    string
	Resolve    bool
	Ordering   types.VersionOrdering
	Groups     []string
	SearchBase string
	Options    ActionOptions
}

type PromoteTreeRequest struct {
	Paths   []string
	Options ActionOptions
}

type PromoteResult struct {
	Version string
	Report  types.PromotionReport
}

type PingResult struct {
	URL           string
	ServerVersion string
}
