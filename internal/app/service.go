package app

import (
	"time"

	"maven-promote/internal/adapters"
	"maven-promote/internal/ports"
	"maven-promote/internal/types"
)

type Service struct {
	Config     Config
	Metadata   ports.MetadataPort
	Repository ports.RepositoryPort
	Search     ports.DirectorySearchPort
	Reports    ports.ReportWriterPort
	Locks      func(path string) ports.LockPort
	OnUnit     func(types.UnitResult)
	Clock      func() time.Time
}

func NewService(cfg Config) Service {
	repository := adapters.NewArtifactoryAdapter(
		adapters.NewHTTPTransport(cfg.URL, cfg.Username, cfg.Password, cfg.TimeoutSec),
	)
	return Service{
		Config:     cfg,
		Metadata:   adapters.NewMavenMetadataAdapter(adapters.NewHTTPTransport(cfg.MetadataURL, "", "", cfg.TimeoutSec)),
		Repository: repository,
		Search:     repository,
		Reports:    adapters.NewReportFileAdapter(),
		Locks: func(path string) ports.LockPort {
			return adapters.NewFileLockAdapter(path)
		},
		Clock: time.Now,
	}
}

func timeNow(clock func() time.Time) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock().UTC()
}
