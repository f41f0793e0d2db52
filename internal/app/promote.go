package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"maven-promote/internal/core"
	"maven-promote/internal/types"
)

// Promote copies or moves one version of every group from the source to the
// target repository. Without explicit groups the source repository is
// searched for <SearchBase>/*/<version> directories.
func (s Service) Promote(ctx context.Context, req PromoteRequest) (PromoteResult, error) {
	if err := s.Config.ValidateForPromotion(); err != nil {
		return PromoteResult{}, err
	}
	version := strings.TrimSpace(req.Version)
	if version == "" {
		return PromoteResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("version is required")
	}
	var resolved ResolveResult
	if req.Resolve {
		var err error
		resolved, err = s.Resolve(ctx, ResolveRequest{Identifier: version, Ordering: req.Ordering})
		if err != nil {
			return PromoteResult{}, err
		}
		event := log.Info().
			Str("identifier", version).
			Str("version", resolved.Version)
		if !resolved.MetadataUpdatedAt.IsZero() {
			event = event.Time("metadata_updated_at", resolved.MetadataUpdatedAt)
		}
		event.Msg("version resolved")
		version = resolved.Version
	}

	units, err := s.versionUnits(ctx, version, req.Groups, req.SearchBase)
	if err != nil {
		return PromoteResult{}, err
	}
	report, err := s.run(ctx, types.PromotionScopeVersion, units, req.Options, func(report *types.PromotionReport) {
		if req.Resolve {
			report.ResolvedFrom = resolved.Identifier
			report.MetadataUpdatedAt = resolved.MetadataUpdatedAt
		}
	})
	return PromoteResult{Version: version, Report: report}, err
}

// PromoteTree promotes whole paths and recalculates Maven metadata for
// each promoted path on the target repository.
func (s Service) PromoteTree(ctx context.Context, req PromoteTreeRequest) (PromoteResult, error) {
	if err := s.Config.ValidateForPromotion(); err != nil {
		return PromoteResult{}, err
	}
	if len(req.Paths) == 0 {
		return PromoteResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one path is required")
	}
	units := make([]types.PromotionUnit, 0, len(req.Paths))
	for _, path := range req.Paths {
		unit, err := types.NewTreeUnit(path)
		if err != nil {
			return PromoteResult{}, err
		}
		units = append(units, unit)
	}
	report, err := s.run(ctx, types.PromotionScopeTree, units, req.Options, nil)
	return PromoteResult{Report: report}, err
}

func (s Service) versionUnits(ctx context.Context, version string, groups []string, searchBase string) ([]types.PromotionUnit, error) {
	var sources []string
	if len(groups) > 0 {
		for _, group := range groups {
			group = strings.TrimSpace(group)
			if group == "" {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg("group path is empty")
			}
			sources = append(sources, types.NormalizeRepoPath(group)+"/"+version)
		}
	} else {
		if s.Search == nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("no groups given and directory search is not configured")
		}
		base := strings.TrimSpace(searchBase)
		if base == "" {
			base = DefaultSearchBase
		}
		found, err := s.Search.FindVersionDirectories(ctx, s.Config.SourceRepo, base, version)
		if err != nil {
			return nil, err
		}
		log.Debug().
			Str("repository", s.Config.SourceRepo).
			Str("base", base).
			Int("directories", len(found)).
			Msg("version directories discovered")
		sources = found
	}
	if len(sources) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no artifact directories found for version %s", version))
	}

	units := make([]types.PromotionUnit, 0, len(sources))
	for _, source := range sources {
		unit, err := types.NewVersionUnit(source, version)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, nil
}

// run promotes units under the optional lock. annotate, when set, fills in
// caller-specific report fields before the report is written.
func (s Service) run(ctx context.Context, scope types.PromotionScope, units []types.PromotionUnit, opts ActionOptions, annotate func(*types.PromotionReport)) (types.PromotionReport, error) {
	mode := opts.Mode
	if mode == "" {
		mode = types.PromotionModeCopy
	}
	if lockPath := strings.TrimSpace(opts.LockPath); lockPath != "" && s.Locks != nil {
		release, err := s.Locks(lockPath).Acquire()
		if err != nil {
			return types.PromotionReport{}, err
		}
		defer func() {
			if err := release(); err != nil {
				log.Warn().Err(err).Str("lock", lockPath).Msg("failed to release promotion lock")
			}
		}()
	}

	promoter := core.NewPromoter(s.Repository)
	promoter.OnUnit = s.OnUnit
	report, promoteErr := promoter.Promote(ctx, types.PromotionRequest{
		Mode:            mode,
		Scope:           scope,
		SourceRepo:      strings.TrimSpace(s.Config.SourceRepo),
		DestinationRepo: strings.TrimSpace(s.Config.TargetRepo),
		Units:           units,
		DryRun:          opts.DryRun,
		SuppressLayout:  opts.SuppressLayout,
		FailFast:        opts.FailFast,
	})
	report.GeneratedAt = timeNow(s.Clock)
	if promoteErr == nil {
		report.ServerVersion = s.serverVersion(ctx)
	}
	if annotate != nil {
		annotate(&report)
	}

	if reportPath := strings.TrimSpace(opts.ReportPath); reportPath != "" && s.Reports != nil && len(report.Results) > 0 {
		if err := s.Reports.WriteReport(reportPath, report); err != nil {
			if promoteErr != nil {
				log.Warn().Err(err).Str("report", reportPath).Msg("failed to write partial promotion report")
			} else {
				return report, err
			}
		}
	}
	return report, promoteErr
}

func (s Service) serverVersion(ctx context.Context) string {
	version, err := s.Repository.SystemVersion(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("repository version unavailable")
		return ""
	}
	return version
}
