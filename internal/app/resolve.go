package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"maven-promote/internal/core"
)

func (s Service) Resolve(ctx context.Context, req ResolveRequest) (ResolveResult, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" {
		return ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("version identifier is required")
	}
	if err := s.Config.ValidateForResolution(); err != nil {
		return ResolveResult{}, err
	}
	resolver := core.NewVersionResolver(s.Metadata, req.Ordering)
	resolved, err := resolver.Resolve(ctx, identifier)
	if err != nil {
		return ResolveResult{}, err
	}
	return ResolveResult{
		Identifier:        resolved.Identifier,
		Version:           resolved.Version,
		MetadataUpdatedAt: resolved.MetadataUpdatedAt,
	}, nil
}
