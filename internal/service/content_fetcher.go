package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"context-builder/internal/domain"
)

const maxDocumentBytes = 100 * 1024 * 1024

// ContentFetcher downloads the raw bytes behind a document URL.
// http(s) URLs are fetched directly; anything else is treated as a
// "bucket/path" (or bare path in the default bucket) in Supabase Storage.
type ContentFetcher struct {
	supabaseClient domain.SupabaseClient
	defaultBucket  string
	httpClient     *http.Client
}

func NewContentFetcher(supabaseClient domain.SupabaseClient, defaultBucket string, httpClient *http.Client) *ContentFetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ContentFetcher{
		supabaseClient: supabaseClient,
		defaultBucket:  defaultBucket,
		httpClient:     httpClient,
	}
}

// Fetch returns the document bytes
func (f *ContentFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, errors.New("document url is empty")
	}

	if u, err := url.Parse(rawURL); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return f.fetchHTTP(ctx, rawURL)
	}
	return f.fetchStorage(ctx, rawURL)
}

func (f *ContentFetcher) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download document: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if len(body) > maxDocumentBytes {
		return nil, fmt.Errorf("document exceeds %d bytes", maxDocumentBytes)
	}
	return body, nil
}

func (f *ContentFetcher) fetchStorage(ctx context.Context, objectPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client := f.supabaseClient.DB()
	if client == nil {
		return nil, errors.New("supabase client not initialized")
	}

	bucket, path := SplitStoragePath(objectPath, f.defaultBucket)
	data, err := client.Storage.DownloadFile(bucket, path)
	if err != nil {
		return nil, fmt.Errorf("download %s/%s from storage: %w", bucket, path, err)
	}
	return data, nil
}

// SplitStoragePath splits "bucket/dir/file" into bucket and object path.
// A path with no directory component lives in the default bucket.
func SplitStoragePath(objectPath, defaultBucket string) (string, string) {
	objectPath = strings.TrimPrefix(objectPath, "/")
	bucket, rest, found := strings.Cut(objectPath, "/")
	if !found || rest == "" {
		return defaultBucket, objectPath
	}
	return bucket, rest
}
