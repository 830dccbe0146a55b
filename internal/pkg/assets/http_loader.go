// Package assets resolves 3D model references for the AR preview.
package assets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ar-storefront-be/pkg/ar"

	"github.com/patrickmn/go-cache"
)

var ErrAssetNotFound = errors.New("asset not found")

// HTTPLoader checks that a model is reachable with a HEAD request. Relative
// references are resolved against the base URL.
type HTTPLoader struct {
	baseURL *url.URL
	client  *http.Client
	cache   *cache.Cache
}

func NewHTTPLoader(baseURL string, client *http.Client) (*HTTPLoader, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid asset base url: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPLoader{
		baseURL: base,
		client:  client,
		cache:   cache.New(10*time.Minute, 20*time.Minute),
	}, nil
}

func (l *HTTPLoader) resolve(ref string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("invalid asset reference %q: %w", ref, err)
	}
	return l.baseURL.ResolveReference(u).String(), nil
}

func (l *HTTPLoader) Load(ctx context.Context, ref string) (*ar.Asset, error) {
	if ref == "" {
		return nil, ErrAssetNotFound
	}
	if cached, found := l.cache.Get(ref); found {
		asset := *cached.(*ar.Asset)
		return &asset, nil
	}

	target, err := l.resolve(ref)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach asset %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, target)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("asset %s returned status %d", target, resp.StatusCode)
	}

	asset := &ar.Asset{
		Ref:         ref,
		URL:         target,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}
	if asset.Size < 0 {
		asset.Size = 0
	}
	l.cache.SetDefault(ref, asset)

	out := *asset
	return &out, nil
}
