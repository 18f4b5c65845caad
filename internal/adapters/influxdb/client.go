// Package influxdb provides the time-series store client and its workers.
// Queries are Flux text treated opaquely: bundled templates with literal
// placeholder tokens substituted before dispatch. Responses are annotated
// CSV decoded row by row
package influxdb

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	perr "lineview/internal/platform/errors"
	"lineview/internal/platform/logger"
	"lineview/internal/platform/metrics"

	"github.com/jszwec/csvutil"
)

// Options configures the Client
type Options struct {
	// BaseURL is the InfluxDB base URL
	BaseURL *url.URL
	// APIToken needs read permission on the configured bucket
	APIToken string
	// Org is the organization name or ID
	Org string
	// Bucket is the queried bucket
	Bucket string
	// Measurement is the queried measurement
	Measurement string
}

// Client talks to the time-series store. All fields are read-only after
// construction so workers share it by cheap copy
type Client struct {
	baseURL     *url.URL
	authHeader  string
	org         string
	bucket      string
	measurement string
	http        *http.Client
	log         logger.Logger
}

// NewClient creates a Client
func NewClient(opt Options, httpClient *http.Client) *Client {
	return &Client{
		baseURL:     opt.BaseURL,
		authHeader:  "Token " + opt.APIToken,
		org:         opt.Org,
		bucket:      opt.Bucket,
		measurement: opt.Measurement,
		http:        httpClient,
		log:         *logger.Named("influxdb"),
	}
}

// queryErrorEnvelope is the store's non-2xx JSON body
type queryErrorEnvelope struct {
	Message string `json:"message"`
}

// queryRows POSTs the Flux query and decodes the CSV response into rows.
// Comment lines starting with '#' (CSV annotations) are skipped
func queryRows[T any](ctx context.Context, c *Client, fluxQuery string) ([]T, error) {
	u := c.baseURL.ResolveReference(&url.URL{Path: "/api/v2/query"})
	q := u.Query()
	q.Set("org", c.org)
	u.RawQuery = q.Encode()

	body := strings.NewReplacer(
		"__bucketplaceholder__", c.bucket,
		"__measurementplaceholder__", c.measurement,
	).Replace(fluxQuery)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(body))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeURLJoin, "building query request")
	}
	req.Header.Set("Accept", "application/csv")
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/vnd.flux")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamRequestSeconds.WithLabelValues("influxdb").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeTransport, "request sending")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope queryErrorEnvelope
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		c.log.Error().Int("status_code", resp.StatusCode).Str("message", envelope.Message).Msg("response status")
		return nil, perr.BadStatusf("bad response status %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.Comment = '#'
	dec, err := csvutil.NewDecoder(reader)
	if err == io.EOF {
		// no header at all: an empty result set
		return nil, nil
	}
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeParse, "CSV data processing")
	}

	var rows []T
	for {
		var row T
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeParse, "CSV data processing")
		}
		rows = append(rows, row)
	}
	return rows, nil
}
