// Package testutil provides shared test helpers used across integration,
// e2e, and unit test packages.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"maven-promote/internal/types"
)

// ReadReport decodes a promotion report written to path.
func ReadReport(t *testing.T, path string) types.PromotionReport {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var report types.PromotionReport
	require.NoError(t, yaml.Unmarshal(data, &report))
	return report
}

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// JenkinsWarMetadata is a trimmed jenkins-war maven-metadata.xml.
const JenkinsWarMetadata = `<?xml version="1.0" encoding="UTF-8"?>
<metadata>
  <groupId>org.jenkins-ci.main</groupId>
  <artifactId>jenkins-war</artifactId>
  <versioning>
    <latest>2.279</latest>
    <release>2.277</release>
    <versions>
      <version>1.11.2</version>
      <version>2.10.1</version>
      <version>2.249</version>
      <version>2.249.3</version>
      <version>2.265</version>
      <version>2.277</version>
      <version>2.279</version>
    </versions>
    <lastUpdated>20210223150409</lastUpdated>
  </versioning>
</metadata>
`

// FakeArtifactory is an in-memory Artifactory serving the endpoints the
// promoter uses. Copy and move mutate the stored paths, so repeated
// promotions observe earlier ones.
type FakeArtifactory struct {
	URL string

	mu       sync.Mutex
	paths    map[string]bool
	requests []string
}

func NewFakeArtifactory(t *testing.T, paths ...string) *FakeArtifactory {
	t.Helper()
	fake := &FakeArtifactory{paths: map[string]bool{}}
	for _, p := range paths {
		fake.paths[strings.Trim(p, "/")] = true
	}
	server := httptest.NewServer(http.HandlerFunc(fake.serve))
	t.Cleanup(server.Close)
	fake.URL = server.URL
	return fake
}

func (f *FakeArtifactory) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	route := r.URL.Path
	switch {
	case route == "/maven-metadata.xml":
		_, _ = w.Write([]byte(JenkinsWarMetadata))
	case route == "/api/system/ping":
		_, _ = w.Write([]byte("OK"))
	case route == "/api/system/version":
		_, _ = w.Write([]byte(`{"version":"7.77.3","revision":"77703900"}`))
	case route == "/api/search/aql":
		f.search(w, r)
	case strings.HasPrefix(route, "/api/storage/"):
		if f.paths[strings.TrimPrefix(route, "/api/storage/")] {
			_, _ = w.Write([]byte(`{"children":[]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case strings.HasPrefix(route, "/api/copy/"), strings.HasPrefix(route, "/api/move/"):
		f.transfer(w, r)
	case strings.HasPrefix(route, "/api/maven/calculateMetadata/"):
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *FakeArtifactory) transfer(w http.ResponseWriter, r *http.Request) {
	move := strings.HasPrefix(r.URL.Path, "/api/move/")
	source := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/api/copy/"), "/api/move/")
	destination := strings.Trim(r.URL.Query().Get("to"), "/") + "/" + path.Base(source)
	if r.URL.Query().Get("dry") != "1" {
		for existing := range f.paths {
			if existing == source || strings.HasPrefix(existing, source+"/") {
				f.paths[destination+strings.TrimPrefix(existing, source)] = true
				if move {
					delete(f.paths, existing)
				}
			}
		}
		f.paths[destination] = true
	}
	_, _ = w.Write([]byte(`{"messages":[{"level":"INFO","message":"` + source + ` to ` + destination + ` completed successfully"}]}`))
}

var aqlMatch = regexp.MustCompile(`"\$match":"([^"]+)"`)

// search answers AQL queries by matching stored staging paths against the
// query's $match pattern.
func (f *FakeArtifactory) search(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	pattern := ""
	if match := aqlMatch.FindSubmatch(body); match != nil {
		pattern = string(match[1])
	}
	var matched []string
	for p := range f.paths {
		repo, rest, ok := strings.Cut(p, "/")
		if !ok || repo != "staging" {
			continue
		}
		if ok, _ := path.Match(pattern, rest); ok {
			matched = append(matched, rest)
		}
	}
	sort.Strings(matched)

	var b strings.Builder
	b.WriteString(`{"results":[`)
	for i, rest := range matched {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"repo":"staging","path":"` + rest + `","name":"` + path.Base(rest) + `"}`)
	}
	b.WriteString(`]}`)
	_, _ = w.Write([]byte(b.String()))
}

// Has reports whether repo/path is stored.
func (f *FakeArtifactory) Has(p string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paths[strings.Trim(p, "/")]
}

func (f *FakeArtifactory) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// MutatingRequests returns only copy, move and metadata requests.
func (f *FakeArtifactory) MutatingRequests() []string {
	var mutating []string
	for _, request := range f.Requests() {
		route := strings.TrimPrefix(request, "POST ")
		if strings.HasPrefix(route, "/api/copy/") ||
			strings.HasPrefix(route, "/api/move/") ||
			strings.HasPrefix(route, "/api/maven/calculateMetadata/") {
			mutating = append(mutating, request)
		}
	}
	return mutating
}
