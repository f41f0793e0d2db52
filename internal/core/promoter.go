package core

import (
	"context"
	"fmt"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"maven-promote/internal/ports"
	"maven-promote/internal/shared"
	"maven-promote/internal/types"
)

// Promoter copies or moves promotion units into a destination repository,
// skipping units already present there. Units are processed one at a time;
// a failure stops the batch and leaves earlier units promoted.
type Promoter struct {
	Repository ports.RepositoryPort
	// OnUnit, when set, is called after each unit is decided.
	OnUnit func(types.UnitResult)
}

func NewPromoter(repository ports.RepositoryPort) Promoter {
	return Promoter{Repository: repository}
}

func (p Promoter) Promote(ctx context.Context, req types.PromotionRequest) (types.PromotionReport, error) {
	report := types.PromotionReport{
		Mode:            req.Mode,
		Scope:           req.Scope,
		SourceRepo:      req.SourceRepo,
		DestinationRepo: req.DestinationRepo,
		DryRun:          req.DryRun,
		Results:         []types.UnitResult{},
	}
	if err := p.validate(req); err != nil {
		return report, err
	}
	if err := p.Repository.Ping(ctx); err != nil {
		return report, err
	}

	flags := types.TransferFlags{
		DryRun:         req.DryRun,
		SuppressLayout: req.SuppressLayout,
		FailFast:       req.FailFast,
	}
	total := len(req.Units)
	for i, unit := range req.Units {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		assert.NotEmpty(ctx, unit.Source, "promotion unit source must be set")
		assert.NotEmpty(ctx, unit.Target, "promotion unit target must be set")

		result, err := p.promoteUnit(ctx, req, unit, flags)
		if err != nil {
			return report, err
		}
		result.Index = i + 1
		result.Total = total
		report.Results = append(report.Results, result)

		log.Info().
			Int("index", result.Index).
			Int("total", total).
			Str("source", unit.Source).
			Str("target", unit.Target).
			Str("outcome", string(result.Outcome)).
			Msg("promotion unit processed")
		if p.OnUnit != nil {
			p.OnUnit(result)
		}
	}

	if req.Scope == types.PromotionScopeTree && !req.DryRun {
		for _, result := range report.Results {
			if result.Outcome != types.PromotionOutcomePromoted {
				continue
			}
			if err := p.Repository.CalculateMetadata(ctx, req.DestinationRepo, result.Unit.Source); err != nil {
				return report, err
			}
			report.RecalculatedMetadata = append(report.RecalculatedMetadata, result.Unit.Source)
			log.Info().
				Str("repo", req.DestinationRepo).
				Str("path", result.Unit.Source).
				Msg("metadata recalculation requested")
		}
	}
	return report, nil
}

func (p Promoter) promoteUnit(ctx context.Context, req types.PromotionRequest, unit types.PromotionUnit, flags types.TransferFlags) (types.UnitResult, error) {
	result := types.UnitResult{Unit: unit}
	exists, err := p.Repository.Exists(ctx, req.DestinationRepo, unit.Source)
	if err != nil {
		return result, err
	}
	if exists {
		result.Outcome = types.PromotionOutcomeSkipped
		result.Messages = []types.TransferMessage{{
			Level:   "INFO",
			Message: fmt.Sprintf("already exists on %s", req.DestinationRepo),
		}}
		return result, nil
	}

	log.Debug().
		Str("mode", string(req.Mode)).
		Str("source", unit.Source).
		Str("from", req.SourceRepo).
		Str("to", req.DestinationRepo).
		Msg("planning promotion")

	var transfer types.TransferResult
	switch req.Mode {
	case types.PromotionModeCopy:
		transfer, err = p.Repository.Copy(ctx, req.SourceRepo, unit.Source, req.DestinationRepo, unit.Target, flags)
	case types.PromotionModeMove:
		transfer, err = p.Repository.Move(ctx, req.SourceRepo, unit.Source, req.DestinationRepo, unit.Target, flags)
	}
	if err != nil {
		return result, err
	}
	for _, message := range transfer.Messages {
		log.Info().
			Str("level", message.Level).
			Str("source", unit.Source).
			Msg(message.Message)
	}
	result.Outcome = types.PromotionOutcomePromoted
	result.Messages = transfer.Messages
	return result, nil
}

func (p Promoter) validate(req types.PromotionRequest) error {
	if p.Repository == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("promoter requires a repository port")
	}
	switch req.Mode {
	case types.PromotionModeCopy, types.PromotionModeMove:
	default:
		return shared.ConfigurationError(fmt.Sprintf("unsupported promotion mode: %q", req.Mode))
	}
	switch req.Scope {
	case types.PromotionScopeVersion, types.PromotionScopeTree:
	default:
		return shared.ConfigurationError(fmt.Sprintf("unsupported promotion scope: %q", req.Scope))
	}
	if strings.TrimSpace(req.SourceRepo) == "" {
		return shared.ConfigurationError("source repository is required")
	}
	if strings.TrimSpace(req.DestinationRepo) == "" {
		return shared.ConfigurationError("destination repository is required")
	}
	if len(req.Units) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no promotion units")
	}
	return nil
}
