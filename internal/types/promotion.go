package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// PromotionUnit is one directory to promote. Target is always Source with
// its last path segment removed.
type PromotionUnit struct {
	Source  string `yaml:"source"`
	Target  string `yaml:"target"`
	Version string `yaml:"version,omitempty"`
}

// NewVersionUnit builds a unit for a source path that must end in /<version>.
func NewVersionUnit(source string, version string) (PromotionUnit, error) {
	path := NormalizeRepoPath(source)
	version = strings.TrimSpace(version)
	if version == "" {
		return PromotionUnit{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("promotion version is empty")
	}
	if strings.Contains(version, "/") {
		return PromotionUnit{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("promotion version contains path separator: %s", version))
	}
	if !strings.HasSuffix(path, "/"+version) || path == "/"+version {
		return PromotionUnit{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("source path %s does not end with version %s", path, version))
	}
	return PromotionUnit{
		Source:  path,
		Target:  strings.TrimSuffix(path, "/"+version),
		Version: version,
	}, nil
}

// NewTreeUnit builds a unit promoting a whole path below its parent.
func NewTreeUnit(source string) (PromotionUnit, error) {
	path := NormalizeRepoPath(source)
	if path == "/" {
		return PromotionUnit{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("promotion path is empty")
	}
	return PromotionUnit{
		Source: path,
		Target: ParentPath(path),
	}, nil
}

// NormalizeRepoPath trims whitespace, forces a single leading slash and
// drops trailing slashes.
func NormalizeRepoPath(value string) string {
	trimmed := strings.Trim(strings.TrimSpace(value), "/")
	if trimmed == "" {
		return "/"
	}
	return "/" + trimmed
}

// ParentPath removes the last segment of a normalized repository path.
func ParentPath(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return "/"
	}
	return path[:idx]
}

type PromotionRequest struct {
	Mode            PromotionMode
	Scope           PromotionScope
	SourceRepo      string
	DestinationRepo string
	Units           []PromotionUnit
	DryRun          bool
	SuppressLayout  bool
	FailFast        bool
}

// TransferFlags are passed verbatim to the repository copy/move call.
type TransferFlags struct {
	DryRun         bool
	SuppressLayout bool
	FailFast       bool
}

type TransferMessage struct {
	Level   string `json:"level" yaml:"level"`
	Message string `json:"message" yaml:"message"`
}

type TransferResult struct {
	Messages []TransferMessage
}

type UnitResult struct {
	Index    int               `yaml:"index"`
	Total    int               `yaml:"total"`
	Unit     PromotionUnit     `yaml:"unit"`
	Outcome  PromotionOutcome  `yaml:"outcome"`
	Messages []TransferMessage `yaml:"messages,omitempty"`
}

type PromotionReport struct {
	Mode                 PromotionMode  `yaml:"mode"`
	Scope                PromotionScope `yaml:"scope"`
	SourceRepo           string         `yaml:"source_repo"`
	DestinationRepo      string         `yaml:"destination_repo"`
	DryRun               bool           `yaml:"dry_run"`
	ServerVersion        string         `yaml:"server_version,omitempty"`
	ResolvedFrom         string         `yaml:"resolved_from,omitempty"`
	MetadataUpdatedAt    time.Time      `yaml:"metadata_updated_at,omitempty"`
	GeneratedAt          time.Time      `yaml:"generated_at"`
	Results              []UnitResult   `yaml:"results"`
	RecalculatedMetadata []string       `yaml:"recalculated_metadata,omitempty"`
}

func (r PromotionReport) Promoted() int {
	return r.count(PromotionOutcomePromoted)
}

func (r PromotionReport) Skipped() int {
	return r.count(PromotionOutcomeSkipped)
}

func (r PromotionReport) count(outcome PromotionOutcome) int {
	total := 0
	for _, result := range r.Results {
		if result.Outcome == outcome {
			total++
		}
	}
	return total
}
