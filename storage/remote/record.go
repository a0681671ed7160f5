// Package remotedb reads records from a REST endpoint serving one JSON array per resource
// (GET <base>/<resource>), such as a PostgREST or Supabase table API.
package remotedb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Velocidex/ttlcache/v2"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	"github.com/mfanajozi/dipapa/core"
	"github.com/mfanajozi/dipapa/core/record"
	"github.com/mfanajozi/dipapa/core/table"
)

const (
	cacheSizeLimit = 100
	maxErrorBody   = 512
)

// StatusError is returned when the remote answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote source responded %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("remote source responded %d %s: %s", e.Code, http.StatusText(e.Code), e.Body)
}

type Options struct {
	BaseURL  string
	APIKey   string
	RetryMax int
	Timeout  time.Duration
	// CacheTTL keeps fetched resources in memory; zero disables caching.
	CacheTTL time.Duration
	Logger   core.Logger
}

type recordRepository struct {
	base   *url.URL
	apiKey string
	client *retryablehttp.Client
	cache  *ttlcache.Cache
}

var _ record.Repository = (*recordRepository)(nil) // interface compliance check

// NewRecordRepository returns a read-only repository. Close it to stop the cache janitor.
func NewRecordRepository(opts Options) (*recordRepository, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing remote url")
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.Errorf("remote url %q must be http(s)", opts.BaseURL)
	}

	client := retryablehttp.NewClient()
	client.RetryMax = opts.RetryMax
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.CheckRetry = retryablehttp.ErrorPropagatedRetryPolicy
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.HTTPClient.Timeout = opts.Timeout
	client.Logger = nil
	if opts.Logger != nil {
		client.Logger = retryLogger{opts.Logger}
	}

	repo := &recordRepository{
		base:   base,
		apiKey: opts.APIKey,
		client: client,
	}
	if opts.CacheTTL > 0 {
		repo.cache = ttlcache.NewCache()
		_ = repo.cache.SetTTL(opts.CacheTTL)
		repo.cache.SetCacheSizeLimit(cacheSizeLimit)
		repo.cache.SkipTTLExtensionOnHit(true)
	}
	return repo, nil
}

func (repo *recordRepository) Close() error {
	if repo.cache != nil {
		return repo.cache.Close()
	}
	return nil
}

// Invalidate drops the cached records of resource.
func (repo *recordRepository) Invalidate(resource string) {
	if repo.cache != nil {
		_ = repo.cache.Remove(resource)
	}
}

func (repo *recordRepository) QueryRecords(ctx context.Context, resource string) ([]table.Record, error) {
	if repo.cache != nil {
		if cached, err := repo.cache.Get(resource); err == nil {
			if recs, ok := cached.([]table.Record); ok {
				return cloneAll(recs), nil
			}
		}
	}

	recs, err := repo.fetch(ctx, resource)
	if err != nil {
		return nil, err
	}
	if repo.cache != nil {
		_ = repo.cache.Set(resource, recs)
	}
	return cloneAll(recs), nil
}

func (repo *recordRepository) GetRecord(ctx context.Context, resource, id string) (table.Record, error) {
	recs, err := repo.QueryRecords(ctx, resource)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec.ID() == id {
			return rec, nil
		}
	}
	return nil, record.ErrNotFound
}

func (repo *recordRepository) CreateRecords(context.Context, string, ...table.Record) error {
	return record.ErrReadOnly
}

func (repo *recordRepository) fetch(ctx context.Context, resource string) ([]table.Record, error) {
	u := *repo.base
	u.Path = u.Path + "/" + url.PathEscape(resource)
	q := u.Query()
	q.Set("select", "*")
	u.RawQuery = q.Encode()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if repo.apiKey != "" {
		req.Header.Set("apikey", repo.apiKey)
		req.Header.Set("Authorization", "Bearer "+repo.apiKey)
	}

	resp, err := repo.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s", resource)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var rows []map[string]interface{}
	if err = dec.Decode(&rows); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", resource)
	}
	recs := make([]table.Record, len(rows))
	for i, row := range rows {
		recs[i] = table.Record(row)
	}
	return recs, nil
}

func cloneAll(recs []table.Record) []table.Record {
	out := make([]table.Record, len(recs))
	for i, rec := range recs {
		out[i] = rec.Clone()
	}
	return out
}

// retryLogger forwards retry warnings and errors; per-request debug lines are dropped.
type retryLogger struct {
	logger core.Logger
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error("remote: "+msg, fields(keysAndValues))
}

func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn("remote: "+msg, fields(keysAndValues))
}

func (l retryLogger) Info(string, ...interface{})  {}
func (l retryLogger) Debug(string, ...interface{}) {}

func fields(keysAndValues []interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		m[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return m
}
