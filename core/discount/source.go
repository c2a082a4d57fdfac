package discount

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"catalog-sync/core/storage"

	"github.com/go-resty/resty/v2"
)

// Source opens the raw discount CSV stream. Implementations exist for local
// files, HTTP(S) URLs and S3-compatible object storage.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// NewSource resolves a location string into a Source. The storage client may
// be nil when no s3:// location is configured. An empty location returns a
// nil Source, which Load treats as "no discounts".
func NewSource(cfg Config, store storage.Client) (Source, error) {
	loc := strings.TrimSpace(cfg.Location)
	switch {
	case loc == "":
		return nil, nil
	case strings.HasPrefix(loc, "http://"), strings.HasPrefix(loc, "https://"):
		return &httpSource{url: loc, timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}, nil
	case strings.HasPrefix(loc, "s3://"):
		bucket, object, err := splitObjectPath(loc)
		if err != nil {
			return nil, err
		}
		if store == nil {
			return nil, fmt.Errorf("discount location %q requires storage configuration", loc)
		}
		return &objectSource{store: store, bucket: bucket, object: object}, nil
	default:
		return &fileSource{path: loc}, nil
	}
}

// splitObjectPath parses "s3://bucket/path/to/object".
func splitObjectPath(loc string) (bucket, object string, err error) {
	rest := strings.TrimPrefix(loc, "s3://")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid s3 discount location %q, want s3://bucket/object", loc)
	}
	return parts[0], parts[1], nil
}

type fileSource struct {
	path string
}

func (s *fileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open discount file: %w", err)
	}
	return f, nil
}

type httpSource struct {
	url     string
	timeout time.Duration
}

func (s *httpSource) Open(ctx context.Context) (io.ReadCloser, error) {
	client := resty.New().
		SetTimeout(s.timeout).
		SetDoNotParseResponse(true).
		SetHeader("User-Agent", "Catalog-Sync/1.0")

	resp, err := client.R().SetContext(ctx).Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch discount url: %w", err)
	}
	if resp.StatusCode() >= 400 {
		resp.RawBody().Close()
		return nil, fmt.Errorf("discount url returned status %d", resp.StatusCode())
	}
	return resp.RawBody(), nil
}

type objectSource struct {
	store  storage.Client
	bucket string
	object string
}

func (s *objectSource) Open(ctx context.Context) (io.ReadCloser, error) {
	r, err := s.store.GetObject(ctx, s.bucket, s.object)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch discount object: %w", err)
	}
	return r, nil
}
