package agentfolio

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/etnz/agentfolio/date"
	"github.com/rs/zerolog"
)

// diskCache implements a simple disk cache for HTTP responses
type diskCache struct {
	base http.RoundTripper
	dir  string
	log  zerolog.Logger
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// diskcache implements a unique key per day, so the local tmp expires every day.
	key := fmt.Sprintf("%s %s %s", date.Today().String(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("method", req.Method).Str("url", req.URL.Redacted()).Str("status", resp.Status).Msg("http")
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// otherwise attempt to store it in cache

	if err := c.put(key, resp); err != nil {
		c.log.Warn().Err(err).Msg("cache write failed (ignored)")
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o644)
}

// HTTPSource reads documents from a static web site serving the agents' data folder.
//
// Daily price files go through a disk cache that expires every day. Agent
// documents and intraday prices are always fetched, so a new run sees the
// records appended since the previous one.
type HTTPSource struct {
	*store
	base   *url.URL
	agents []string
	live   *http.Client
	daily  *http.Client
}

// NewHTTPSource returns a Source reading documents below base.
//
// agents lists the agents to reconstruct. When empty, they are read from the
// index document "<agents folder>/agents.json", a JSON array of names.
func NewHTTPSource(base string, agents []string, log zerolog.Logger) (*HTTPSource, error) {
	u, err := url.Parse(strings.TrimSuffix(base, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid source url %q: %w", base, err)
	}
	h := &HTTPSource{
		base:   u,
		agents: slices.Sorted(slices.Values(agents)),
		live:   http.DefaultClient,
		daily: &http.Client{Transport: &diskCache{
			base: http.DefaultTransport,
			dir:  os.TempDir(),
			log:  log,
		}},
	}
	h.store = newStore(h, log)
	return h, nil
}

// client returns the client fetching name: daily price files go through the
// disk cache, agent documents and intraday prices are always fetched.
func (h *HTTPSource) client(market Market, name string) *http.Client {
	if market.IsDaily() && name == mergedPath(market) {
		return h.daily
	}
	return h.live
}

func (h *HTTPSource) open(ctx context.Context, market Market, name string) (io.ReadCloser, error) {
	addr := h.base.JoinPath(name).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.client(market, name).Do(req)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, addr)
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, fmt.Errorf("cannot http GET %v/%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	return resp.Body, nil
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func (h *HTTPSource) jwget(ctx context.Context, market Market, name string, data any) error {
	r, err := h.open(ctx, market, name)
	if err != nil {
		return err
	}
	defer r.Close()
	return json.NewDecoder(r).Decode(data)
}

// Agents implements Source.
func (h *HTTPSource) Agents(ctx context.Context, market Market) ([]string, error) {
	if len(h.agents) > 0 {
		return h.agents, nil
	}
	var agents []string
	if err := h.jwget(ctx, market, path.Join(agentDir(market), "agents.json"), &agents); err != nil {
		return nil, fmt.Errorf("cannot list %s agents: %w", market, err)
	}
	slices.Sort(agents)
	return agents, nil
}
