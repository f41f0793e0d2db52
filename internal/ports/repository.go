package ports

import (
	"context"

	"maven-promote/internal/types"
)

// RepositoryPort is the artifact repository API the promoter drives.
type RepositoryPort interface {
	Ping(ctx context.Context) error
	SystemVersion(ctx context.Context) (string, error)
	Exists(ctx context.Context, repo string, path string) (bool, error)
	Copy(ctx context.Context, srcRepo string, srcPath string, dstRepo string, dstPath string, flags types.TransferFlags) (types.TransferResult, error)
	Move(ctx context.Context, srcRepo string, srcPath string, dstRepo string, dstPath string, flags types.TransferFlags) (types.TransferResult, error)
	CalculateMetadata(ctx context.Context, repo string, path string) error
}

// DirectorySearchPort finds version directories below a base path.
type DirectorySearchPort interface {
	FindVersionDirectories(ctx context.Context, repo string, basePath string, version string) ([]string, error)
}
