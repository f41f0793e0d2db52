package app

import (
	"context"
	"fmt"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maven-promote/internal/ports"
	"maven-promote/internal/shared"
	"maven-promote/internal/types"
)

type stubMetadata struct {
	metadata types.MavenMetadata
	calls    int
}

func (s *stubMetadata) FetchMetadata(_ context.Context) (types.MavenMetadata, error) {
	s.calls++
	return s.metadata, nil
}

type stubRepository struct {
	reachable  bool
	present    map[string]bool
	calls      []string
	versionErr error
}

func newStubRepository(present ...string) *stubRepository {
	repo := &stubRepository{reachable: true, present: map[string]bool{}}
	for _, key := range present {
		repo.present[key] = true
	}
	return repo
}

func (s *stubRepository) Ping(_ context.Context) error {
	s.calls = append(s.calls, "ping")
	if !s.reachable {
		return shared.TransportUnreachable("https://repo.example.org", nil)
	}
	return nil
}

func (s *stubRepository) SystemVersion(_ context.Context) (string, error) {
	if s.versionErr != nil {
		return "", s.versionErr
	}
	return "7.77.3", nil
}

func (s *stubRepository) Exists(_ context.Context, repo string, p string) (bool, error) {
	s.calls = append(s.calls, "exists "+repo+p)
	return s.present[repo+p], nil
}

func (s *stubRepository) Copy(_ context.Context, srcRepo string, srcPath string, dstRepo string, dstPath string, flags types.TransferFlags) (types.TransferResult, error) {
	s.calls = append(s.calls, fmt.Sprintf("copy %s%s -> %s%s dry=%t", srcRepo, srcPath, dstRepo, dstPath, flags.DryRun))
	if !flags.DryRun {
		s.present[dstRepo+dstPath+"/"+path.Base(srcPath)] = true
	}
	return types.TransferResult{}, nil
}

func (s *stubRepository) Move(_ context.Context, srcRepo string, srcPath string, dstRepo string, dstPath string, flags types.TransferFlags) (types.TransferResult, error) {
	s.calls = append(s.calls, fmt.Sprintf("move %s%s -> %s%s dry=%t", srcRepo, srcPath, dstRepo, dstPath, flags.DryRun))
	return types.TransferResult{}, nil
}

func (s *stubRepository) CalculateMetadata(_ context.Context, repo string, p string) error {
	s.calls = append(s.calls, "metadata "+repo+p)
	return nil
}

type stubSearch struct {
	directories []string
	queries     []string
}

func (s *stubSearch) FindVersionDirectories(_ context.Context, repo string, basePath string, version string) ([]string, error) {
	s.queries = append(s.queries, repo+" "+basePath+" "+version)
	return s.directories, nil
}

type memoryReports struct {
	written map[string]types.PromotionReport
}

func (m *memoryReports) WriteReport(p string, report types.PromotionReport) error {
	if m.written == nil {
		m.written = map[string]types.PromotionReport{}
	}
	m.written[p] = report
	return nil
}

type heldLock struct{}

func (heldLock) Acquire() (func() error, error) {
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(shared.LockHeldPrefix + ": /tmp/promote.lock")
}

type countingLock struct {
	acquired int
	released int
}

func (c *countingLock) Acquire() (func() error, error) {
	c.acquired++
	return func() error {
		c.released++
		return nil
	}, nil
}

func testConfig() Config {
	return Config{
		URL:         "https://repo.example.org",
		Username:    "ci",
		Password:    "secret",
		SourceRepo:  "staging",
		TargetRepo:  "releases",
		MetadataURL: DefaultMetadataURL,
	}
}

func testService(repo *stubRepository) (Service, *stubMetadata, *stubSearch, *memoryReports) {
	metadata := &stubMetadata{metadata: types.MavenMetadata{
		Latest:   "2.279",
		Release:  "2.279",
		Versions: []string{"2.10.1", "2.265", "2.279", "1.11.2"},
	}}
	search := &stubSearch{}
	reports := &memoryReports{}
	return Service{
		Config:     testConfig(),
		Metadata:   metadata,
		Repository: repo,
		Search:     search,
		Reports:    reports,
	}, metadata, search, reports
}

func TestConfig_ValidateForPromotionListsEveryMissingKey(t *testing.T) {
	err := Config{URL: "https://repo.example.org"}.ValidateForPromotion()
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	for _, key := range []string{
		"MAVEN_REPOSITORY_USERNAME",
		"MAVEN_REPOSITORY_PASSWORD",
		"MAVEN_REPOSITORY_NAME",
		"MAVEN_REPOSITORY_PRODUCTION_NAME",
	} {
		assert.Contains(t, err.Error(), key)
	}
	assert.NotContains(t, err.Error(), "MAVEN_REPOSITORY_URL")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		check   func(Config) error
		wantErr bool
	}{
		{name: "complete promotion config", mutate: func(*Config) {}, check: Config.ValidateForPromotion},
		{name: "same repositories", mutate: func(c *Config) { c.TargetRepo = c.SourceRepo }, check: Config.ValidateForPromotion, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.TimeoutSec = -1 }, check: Config.ValidateForPromotion, wantErr: true},
		{name: "resolution needs only metadata url", mutate: func(c *Config) { *c = Config{MetadataURL: DefaultMetadataURL} }, check: Config.ValidateForResolution},
		{name: "resolution without metadata url", mutate: func(c *Config) { c.MetadataURL = " " }, check: Config.ValidateForResolution, wantErr: true},
		{name: "ping without url", mutate: func(c *Config) { c.URL = "" }, check: Config.ValidateForPing, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			err := tt.check(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestService_Resolve(t *testing.T) {
	svc, metadata, _, _ := testService(newStubRepository())

	indexed := time.Date(2021, 2, 23, 15, 4, 9, 0, time.UTC)
	metadata.metadata.LastUpdatedAt = indexed

	result, err := svc.Resolve(context.Background(), ResolveRequest{Identifier: " 2 "})
	require.NoError(t, err)
	assert.Equal(t, ResolveResult{Identifier: "2", Version: "2.279", MetadataUpdatedAt: indexed}, result)
	assert.Equal(t, 1, metadata.calls)
}

func TestService_ResolveRequiresIdentifier(t *testing.T) {
	svc, metadata, _, _ := testService(newStubRepository())

	_, err := svc.Resolve(context.Background(), ResolveRequest{Identifier: "  "})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	assert.Zero(t, metadata.calls)
}

func TestService_PromoteExplicitGroups(t *testing.T) {
	repo := newStubRepository("releases/org/jenkins-ci/main/jenkins-war/2.279")
	svc, _, search, reports := testService(repo)

	result, err := svc.Promote(context.Background(), PromoteRequest{
		Version: "2.279",
		Groups:  []string{"org/jenkins-ci/main/cli/", "/org/jenkins-ci/main/jenkins-war"},
		Options: ActionOptions{ReportPath: "out/report.yaml", FailFast: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "2.279", result.Version)
	assert.Equal(t, 1, result.Report.Promoted())
	assert.Equal(t, 1, result.Report.Skipped())
	assert.Equal(t, "7.77.3", result.Report.ServerVersion)
	assert.Empty(t, search.queries)

	expected := []string{
		"ping",
		"exists releases/org/jenkins-ci/main/cli/2.279",
		"copy staging/org/jenkins-ci/main/cli/2.279 -> releases/org/jenkins-ci/main/cli dry=false",
		"exists releases/org/jenkins-ci/main/jenkins-war/2.279",
	}
	if diff := cmp.Diff(expected, repo.calls); diff != "" {
		t.Fatalf("unexpected calls (-want +got):\n%s", diff)
	}
	require.Contains(t, reports.written, "out/report.yaml")
	assert.Equal(t, result.Report, reports.written["out/report.yaml"])
}

func TestService_PromoteDiscoversDirectories(t *testing.T) {
	repo := newStubRepository()
	svc, _, search, _ := testService(repo)
	search.directories = []string{"/org/jenkins-ci/main/cli/2.279"}

	result, err := svc.Promote(context.Background(), PromoteRequest{
		Version: "2.279",
		Options: ActionOptions{Mode: types.PromotionModeMove},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"staging /org/jenkins-ci/main 2.279"}, search.queries)
	assert.Equal(t, types.PromotionModeMove, result.Report.Mode)
	assert.Contains(t, repo.calls, "move staging/org/jenkins-ci/main/cli/2.279 -> releases/org/jenkins-ci/main/cli dry=false")
}

func TestService_PromoteNothingDiscovered(t *testing.T) {
	repo := newStubRepository()
	svc, _, _, _ := testService(repo)

	_, err := svc.Promote(context.Background(), PromoteRequest{Version: "2.279", SearchBase: "/io/jenkins"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
	assert.Empty(t, repo.calls)
}

func TestService_PromoteRejectsBlankGroups(t *testing.T) {
	tests := []struct {
		name   string
		groups []string
	}{
		{name: "only blank", groups: []string{" "}},
		{name: "blank among valid", groups: []string{"/org/jenkins-ci/main/cli", ""}},
		{name: "root group", groups: []string{"/"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newStubRepository()
			svc, _, search, _ := testService(repo)

			_, err := svc.Promote(context.Background(), PromoteRequest{Version: "2.279", Groups: tt.groups})
			require.Error(t, err)
			assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
			assert.Empty(t, repo.calls)
			assert.Empty(t, search.queries)
		})
	}
}

func TestService_PromoteResolvesIdentifier(t *testing.T) {
	repo := newStubRepository()
	svc, metadata, _, _ := testService(repo)

	result, err := svc.Promote(context.Background(), PromoteRequest{
		Version: "latest",
		Resolve: true,
		Groups:  []string{"/org/jenkins-ci/main/cli"},
		Options: ActionOptions{DryRun: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "2.279", result.Version)
	assert.Equal(t, 1, metadata.calls)
	assert.True(t, result.Report.DryRun)
	assert.Contains(t, repo.calls, "copy staging/org/jenkins-ci/main/cli/2.279 -> releases/org/jenkins-ci/main/cli dry=true")
}

func TestService_PromoteReportRecordsResolution(t *testing.T) {
	repo := newStubRepository()
	svc, metadata, _, reports := testService(repo)
	indexed := time.Date(2021, 2, 23, 15, 4, 9, 0, time.UTC)
	metadata.metadata.LastUpdatedAt = indexed

	result, err := svc.Promote(context.Background(), PromoteRequest{
		Version: "2.26",
		Resolve: true,
		Groups:  []string{"/org/jenkins-ci/main/cli"},
		Options: ActionOptions{ReportPath: "report.yaml"},
	})
	require.NoError(t, err)
	assert.Equal(t, "2.265", result.Version)
	assert.Equal(t, "2.26", result.Report.ResolvedFrom)
	assert.True(t, indexed.Equal(result.Report.MetadataUpdatedAt))

	written := reports.written["report.yaml"]
	assert.Equal(t, "2.26", written.ResolvedFrom)
	assert.True(t, indexed.Equal(written.MetadataUpdatedAt))
}

func TestService_PromoteWithoutResolveLeavesResolutionEmpty(t *testing.T) {
	repo := newStubRepository()
	svc, metadata, _, _ := testService(repo)
	metadata.metadata.LastUpdatedAt = time.Date(2021, 2, 23, 15, 4, 9, 0, time.UTC)

	result, err := svc.Promote(context.Background(), PromoteRequest{
		Version: "2.279",
		Groups:  []string{"/org/jenkins-ci/main/cli"},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Report.ResolvedFrom)
	assert.True(t, result.Report.MetadataUpdatedAt.IsZero())
	assert.Zero(t, metadata.calls)
}

func TestService_PromoteRejectsIncompleteConfig(t *testing.T) {
	repo := newStubRepository()
	svc, _, _, _ := testService(repo)
	svc.Config.Password = ""

	_, err := svc.Promote(context.Background(), PromoteRequest{Version: "2.279", Groups: []string{"/org/jenkins-ci/main/cli"}})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	assert.Empty(t, repo.calls)
}

func TestService_PromoteUnreachableWritesNoReport(t *testing.T) {
	repo := newStubRepository()
	repo.reachable = false
	svc, _, _, reports := testService(repo)

	_, err := svc.Promote(context.Background(), PromoteRequest{
		Version: "2.279",
		Groups:  []string{"/org/jenkins-ci/main/cli"},
		Options: ActionOptions{ReportPath: "report.yaml"},
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
	assert.Equal(t, []string{"ping"}, repo.calls)
	assert.Empty(t, reports.written)
}

func TestService_PromoteTree(t *testing.T) {
	repo := newStubRepository()
	svc, _, _, _ := testService(repo)

	result, err := svc.PromoteTree(context.Background(), PromoteTreeRequest{
		Paths: []string{"/org/jenkins-ci/plugins/git"},
	})
	require.NoError(t, err)
	assert.Equal(t, types.PromotionScopeTree, result.Report.Scope)
	assert.Equal(t, []string{"/org/jenkins-ci/plugins/git"}, result.Report.RecalculatedMetadata)
	assert.Equal(t, "metadata releases/org/jenkins-ci/plugins/git", repo.calls[len(repo.calls)-1])
}

func TestService_PromoteTreeRequiresPaths(t *testing.T) {
	svc, _, _, _ := testService(newStubRepository())

	_, err := svc.PromoteTree(context.Background(), PromoteTreeRequest{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestService_LockHeldStopsBeforeAnyCall(t *testing.T) {
	repo := newStubRepository()
	svc, _, _, _ := testService(repo)
	svc.Locks = func(string) ports.LockPort { return heldLock{} }

	_, err := svc.Promote(context.Background(), PromoteRequest{
		Version: "2.279",
		Groups:  []string{"/org/jenkins-ci/main/cli"},
		Options: ActionOptions{LockPath: "/tmp/promote.lock"},
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
	assert.True(t, strings.Contains(err.Error(), shared.LockHeldPrefix))
	assert.Empty(t, repo.calls)
}

func TestService_LockReleasedAfterPromotion(t *testing.T) {
	lock := &countingLock{}
	svc, _, _, _ := testService(newStubRepository())
	svc.Locks = func(string) ports.LockPort { return lock }

	_, err := svc.Promote(context.Background(), PromoteRequest{
		Version: "2.279",
		Groups:  []string{"/org/jenkins-ci/main/cli"},
		Options: ActionOptions{LockPath: "/tmp/promote.lock"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, lock.acquired)
	assert.Equal(t, 1, lock.released)
}

func TestService_PingReportsServerVersion(t *testing.T) {
	repo := newStubRepository()
	svc, _, _, _ := testService(repo)
	svc.Config.URL = "https://repo.example.org/"

	result, err := svc.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PingResult{URL: "https://repo.example.org", ServerVersion: "7.77.3"}, result)
}

func TestService_PingToleratesMissingVersion(t *testing.T) {
	repo := newStubRepository()
	repo.versionErr = errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("forbidden")
	svc, _, _, _ := testService(repo)

	result, err := svc.Ping(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.ServerVersion)
}
