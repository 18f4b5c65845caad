package configapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	perr "lineview/internal/platform/errors"
	"lineview/internal/platform/logger"
	"lineview/internal/platform/metrics"
	"lineview/internal/platform/validate"
)

const commonConfigPath = "common"

// DefaultCacheExpiration is the common configuration cache TTL unless configured
const DefaultCacheExpiration = time.Minute

var rulesOnce sync.Once

// Options configures the Client
type Options struct {
	// BaseURL is the Configuration API URL; partner ids resolve against it
	BaseURL *url.URL
	// CacheExpiration bounds the common configuration cache age
	CacheExpiration time.Duration
}

// commonCache is the single cache slot shared by all worker clones. The
// mutex deliberately covers the miss-path upstream fetch so that a burst of
// concurrent misses collapses into one GET (single-flight). Do not narrow
// the critical section
type commonCache struct {
	mu         sync.Mutex
	capturedAt time.Time
	value      *CommonConfig
	expiration time.Duration
}

// Client talks to the Configuration API. It is cheap to copy: the cache
// slot and base URL are shared handles
type Client struct {
	baseURL *url.URL
	http    *http.Client
	cache   *commonCache
	log     logger.Logger
}

// NewClient creates a Client and registers the config validation rules
func NewClient(opt Options, httpClient *http.Client) *Client {
	rulesOnce.Do(func() {
		validate.RegisterStructRule(commonConfigRules, CommonConfig{})
	})
	exp := opt.CacheExpiration
	if exp <= 0 {
		exp = DefaultCacheExpiration
	}
	return &Client{
		baseURL: opt.BaseURL,
		http:    httpClient,
		cache:   &commonCache{expiration: exp},
		log:     *logger.Named("config_api"),
	}
}

// query GETs the id-scoped endpoint (or the common one when id is empty)
// and decodes the JSON body into v
func (c *Client) query(ctx context.Context, id string, v any) error {
	if id == "" {
		id = commonConfigPath
	}
	ref, err := url.Parse(id)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeURLJoin, "joining config API URL and ID")
	}
	u := c.baseURL.ResolveReference(ref)
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return perr.URLJoinf("joining config API URL and ID: %q does not compose", id)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeURLJoin, "building config API request")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamRequestSeconds.WithLabelValues("config_api").Observe(time.Since(start).Seconds())
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeTransport, "http request sending")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return perr.BadStatusf("bad response status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return perr.Wrap(err, perr.ErrorCodeParse, "response deserialization")
	}
	return nil
}

// CachedCommonConfig serves the common configuration from the cache, going
// upstream at most once per expiration window. The in-flight fetch is not
// cancellable by a single waiter: it completes and fills the cache even if
// that waiter has gone away
func (c *Client) CachedCommonConfig(ctx context.Context) (CommonConfig, error) {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()

	if c.cache.value != nil {
		elapsed := time.Since(c.cache.capturedAt)
		if elapsed < c.cache.expiration {
			metrics.CommonConfigCacheHits.WithLabelValues("hit").Inc()
			return *c.cache.value, nil
		}
		metrics.CommonConfigCacheHits.WithLabelValues("expired").Inc()
		c.log.Debug().Dur("elapsed", elapsed).Msg("cache expired")
	} else {
		metrics.CommonConfigCacheHits.WithLabelValues("miss").Inc()
		c.log.Debug().Msg("empty cache")
	}

	var cfg CommonConfig
	if err := c.query(context.WithoutCancel(ctx), "", &cfg); err != nil {
		return CommonConfig{}, err
	}
	if err := validate.Struct(cfg); err != nil {
		return CommonConfig{}, err
	}
	c.cache.capturedAt = time.Now()
	c.cache.value = &cfg
	return cfg, nil
}

// PartnerConfigFor fetches the partner-scoped configuration, uncached
func (c *Client) PartnerConfigFor(ctx context.Context, id string) (PartnerConfig, error) {
	var cfg PartnerConfig
	if err := c.query(ctx, id, &cfg); err != nil {
		return PartnerConfig{}, err
	}
	if err := validate.Struct(cfg); err != nil {
		return PartnerConfig{}, err
	}
	return cfg, nil
}
