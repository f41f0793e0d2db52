package ports

import (
	"context"

	"maven-promote/internal/types"
)

type MetadataPort interface {
	FetchMetadata(ctx context.Context) (types.MavenMetadata, error)
}
