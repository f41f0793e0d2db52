package ports

import "maven-promote/internal/types"

type ReportWriterPort interface {
	WriteReport(path string, report types.PromotionReport) error
}

// LockPort serializes promotions running on the same host.
type LockPort interface {
	Acquire() (release func() error, err error)
}
