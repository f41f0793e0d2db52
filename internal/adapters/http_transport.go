package adapters

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"maven-promote/internal/ports"
)

// HTTPTransport issues requests against one base URL. A zero timeout waits
// for the server indefinitely.
type HTTPTransport struct {
	Endpoint string
	Username string
	Password string
	Timeout  time.Duration
}

func NewHTTPTransport(endpoint string, username string, password string, timeoutSec int) HTTPTransport {
	timeout := time.Duration(timeoutSec) * time.Second
	if timeout < 0 {
		timeout = 0
	}
	return HTTPTransport{
		Endpoint: strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		Username: strings.TrimSpace(username),
		Password: password,
		Timeout:  timeout,
	}
}

func (t HTTPTransport) BaseURL() string {
	return t.Endpoint
}

func (t HTTPTransport) Get(ctx context.Context, path string) (int, []byte, error) {
	return t.do(ctx, http.MethodGet, path, nil)
}

func (t HTTPTransport) Post(ctx context.Context, path string, body []byte) (int, []byte, error) {
	return t.do(ctx, http.MethodPost, path, body)
}

func (t HTTPTransport) do(ctx context.Context, method string, path string, body []byte) (int, []byte, error) {
	if t.Endpoint == "" {
		return 0, nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("repository endpoint is empty")
	}
	target := t.resolve(path)
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create repository request").
			WithCause(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "text/plain")
	}
	t.applyBasicAuth(req)
	client := &http.Client{Timeout: t.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("repository request failed").
			WithCause(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read repository response").
			WithCause(err)
	}
	return resp.StatusCode, data, nil
}

func (t HTTPTransport) resolve(path string) string {
	if strings.TrimSpace(path) == "" {
		return t.Endpoint
	}
	return t.Endpoint + "/" + strings.TrimLeft(path, "/")
}

func (t HTTPTransport) applyBasicAuth(req *http.Request) {
	if t.Username == "" {
		return
	}
	req.SetBasicAuth(t.Username, t.Password)
}

var _ ports.TransportPort = HTTPTransport{}
