package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"maven-promote/internal/ports"
	"maven-promote/internal/shared"
	"maven-promote/internal/types"
)

// ArtifactoryAdapter speaks the Artifactory REST API over a transport.
type ArtifactoryAdapter struct {
	Transport ports.TransportPort
}

func NewArtifactoryAdapter(transport ports.TransportPort) ArtifactoryAdapter {
	return ArtifactoryAdapter{Transport: transport}
}

type transferResponse struct {
	Messages []types.TransferMessage `json:"messages"`
}

type systemVersionResponse struct {
	Version  string `json:"version"`
	Revision string `json:"revision"`
}

type aqlResponse struct {
	Results []struct {
		Repo string `json:"repo"`
		Path string `json:"path"`
		Name string `json:"name"`
	} `json:"results"`
}

func (a ArtifactoryAdapter) Ping(ctx context.Context) error {
	status, body, err := a.Transport.Get(ctx, "api/system/ping")
	if err != nil {
		return shared.TransportUnreachable(a.Transport.BaseURL(), err)
	}
	if status != http.StatusOK {
		return shared.TransportUnreachable(a.Transport.BaseURL(), shared.HTTPStatusErrorWithBody(status, a.url("api/system/ping"), string(body)))
	}
	return nil
}

func (a ArtifactoryAdapter) SystemVersion(ctx context.Context) (string, error) {
	path := "api/system/version"
	status, body, err := a.Transport.Get(ctx, path)
	if err != nil {
		return "", err
	}
	if !isSuccess(status) {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("repository version request failed").
			WithCause(shared.HTTPStatusErrorWithBody(status, a.url(path), string(body)))
	}
	var payload systemVersionResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse repository version").
			WithCause(err)
	}
	return payload.Version, nil
}

// Exists reports whether repo holds path. Any status other than 200 or 404
// is returned as an error rather than treated as absent.
func (a ArtifactoryAdapter) Exists(ctx context.Context, repo string, path string) (bool, error) {
	storagePath := "api/storage/" + repoPath(repo, path)
	status, body, err := a.Transport.Get(ctx, storagePath)
	if err != nil {
		return false, err
	}
	switch status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("repository storage lookup failed").
			WithCause(shared.HTTPStatusErrorWithBody(status, a.url(storagePath), string(body)))
	}
}

func (a ArtifactoryAdapter) Copy(ctx context.Context, srcRepo string, srcPath string, dstRepo string, dstPath string, flags types.TransferFlags) (types.TransferResult, error) {
	return a.transfer(ctx, "copy", srcRepo, srcPath, dstRepo, dstPath, flags)
}

func (a ArtifactoryAdapter) Move(ctx context.Context, srcRepo string, srcPath string, dstRepo string, dstPath string, flags types.TransferFlags) (types.TransferResult, error) {
	return a.transfer(ctx, "move", srcRepo, srcPath, dstRepo, dstPath, flags)
}

func (a ArtifactoryAdapter) transfer(ctx context.Context, action string, srcRepo string, srcPath string, dstRepo string, dstPath string, flags types.TransferFlags) (types.TransferResult, error) {
	query := url.Values{}
	query.Set("to", "/"+repoPath(dstRepo, dstPath))
	query.Set("dry", boolFlag(flags.DryRun))
	query.Set("suppressLayout", boolFlag(flags.SuppressLayout))
	query.Set("failFast", boolFlag(flags.FailFast))
	path := fmt.Sprintf("api/%s/%s?%s", action, repoPath(srcRepo, srcPath), query.Encode())

	status, body, err := a.Transport.Post(ctx, path, nil)
	if err != nil {
		return types.TransferResult{}, err
	}
	if !isSuccess(status) {
		return types.TransferResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("repository %s failed", action)).
			WithCause(shared.HTTPStatusErrorWithBody(status, a.url(path), string(body)))
	}
	var payload transferResponse
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return types.TransferResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("failed to parse %s response", action)).
				WithCause(err)
		}
	}
	return types.TransferResult{Messages: payload.Messages}, nil
}

func (a ArtifactoryAdapter) CalculateMetadata(ctx context.Context, repo string, path string) error {
	target := fmt.Sprintf("api/maven/calculateMetadata/%s?nonRecursive=false", repoPath(repo, path))
	status, body, err := a.Transport.Post(ctx, target, nil)
	if err != nil {
		return err
	}
	if !isSuccess(status) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("metadata recalculation failed").
			WithCause(shared.HTTPStatusErrorWithBody(status, a.url(target), string(body)))
	}
	return nil
}

// FindVersionDirectories runs an AQL search for <basePath>/*/<version>
// folders in repo and returns their distinct paths in response order.
func (a ArtifactoryAdapter) FindVersionDirectories(ctx context.Context, repo string, basePath string, version string) ([]string, error) {
	base := strings.TrimPrefix(types.NormalizeRepoPath(basePath), "/")
	payload := fmt.Sprintf(
		`items.find({"$and":[{"repo":{"$eq":"%s"}},{"path":{"$match":"%s/*/%s"}}]}).include("repo","name","path")`,
		repo, base, version,
	)
	path := "api/search/aql"
	status, body, err := a.Transport.Post(ctx, path, []byte(payload))
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("repository search failed").
			WithCause(shared.HTTPStatusErrorWithBody(status, a.url(path), string(body)))
	}
	var response aqlResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse repository search results").
			WithCause(err)
	}
	seen := map[string]struct{}{}
	var directories []string
	for _, result := range response.Results {
		directory := types.NormalizeRepoPath(result.Path)
		if _, ok := seen[directory]; ok {
			continue
		}
		seen[directory] = struct{}{}
		directories = append(directories, directory)
	}
	return directories, nil
}

func (a ArtifactoryAdapter) url(path string) string {
	return strings.TrimRight(a.Transport.BaseURL(), "/") + "/" + path
}

func repoPath(repo string, path string) string {
	return strings.Trim(strings.TrimSpace(repo), "/") + types.NormalizeRepoPath(path)
}

func boolFlag(value bool) string {
	if value {
		return "1"
	}
	return "0"
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

var (
	_ ports.RepositoryPort      = ArtifactoryAdapter{}
	_ ports.DirectorySearchPort = ArtifactoryAdapter{}
)
