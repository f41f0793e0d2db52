package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

func (s Service) Ping(ctx context.Context) (PingResult, error) {
	if err := s.Config.ValidateForPing(); err != nil {
		return PingResult{}, err
	}
	if s.Repository == nil {
		return PingResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("repository adapter is required")
	}
	if err := s.Repository.Ping(ctx); err != nil {
		return PingResult{}, err
	}
	return PingResult{
		URL:           strings.TrimRight(strings.TrimSpace(s.Config.URL), "/"),
		ServerVersion: s.serverVersion(ctx),
	}, nil
}
