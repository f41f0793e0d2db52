package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"maven-promote/internal/types"
)

type unitPrinter struct {
	out io.Writer
}

func newUnitPrinter(out io.Writer) unitPrinter {
	return unitPrinter{out: out}
}

func (p unitPrinter) Unit(result types.UnitResult) {
	fmt.Fprintf(p.out, "[%d/%d] - %s\n", result.Index, result.Total, result.Unit.Source)
	switch result.Outcome {
	case types.PromotionOutcomeSkipped:
		fmt.Fprintf(p.out, "  %s\n", color.New(color.FgYellow).Sprint("skipped"))
	default:
		fmt.Fprintf(p.out, "  %s -> %s\n", color.New(color.FgGreen).Sprint("promoted"), result.Unit.Target)
	}
	for _, message := range result.Messages {
		fmt.Fprintf(p.out, "  %s %s\n", color.New(levelColor(message.Level)).Sprint(message.Level), message.Message)
	}
}

func (p unitPrinter) Summary(report types.PromotionReport) {
	prefix := ""
	if report.DryRun {
		prefix = color.New(color.FgCyan).Sprint("[dry-run] ")
	}
	fmt.Fprintf(p.out, "%s%s %s -> %s: %d promoted, %d skipped\n",
		prefix, report.Mode, report.SourceRepo, report.DestinationRepo, report.Promoted(), report.Skipped())
	if report.ResolvedFrom != "" {
		fmt.Fprintf(p.out, "  resolved from %q", report.ResolvedFrom)
		if !report.MetadataUpdatedAt.IsZero() {
			fmt.Fprintf(p.out, " (index updated %s)", report.MetadataUpdatedAt.Format(time.RFC3339))
		}
		fmt.Fprintln(p.out)
	}
	for _, path := range report.RecalculatedMetadata {
		fmt.Fprintf(p.out, "  metadata recalculated: %s\n", path)
	}
}

func levelColor(level string) color.Attribute {
	switch level {
	case "ERROR":
		return color.FgRed
	case "WARN", "WARNING":
		return color.FgYellow
	default:
		return color.FgBlue
	}
}
