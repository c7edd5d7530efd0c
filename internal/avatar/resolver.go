// Package avatar resolves social-profile images for project handles.
package avatar

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"rfa-explorer/internal/observability"
	"rfa-explorer/internal/storage"
)

// DefaultBaseURL is the public unavatar service.
const DefaultBaseURL = "https://unavatar.io"

// DefaultTimeout bounds a single probe.
const DefaultTimeout = 10 * time.Second

// ErrNotFound is returned when the upstream has no image for a handle.
var ErrNotFound = errors.New("avatar not found")

// Resolver probes the avatar service and caches successful results for the
// rest of the process lifetime. Misses are not cached.
type Resolver struct {
	client  *resty.Client
	baseURL string
	timeout time.Duration
	cache   storage.AvatarCache
	group   singleflight.Group
	logger  logrus.FieldLogger
}

// NewResolver creates a resolver for the service at baseURL.
func NewResolver(baseURL string, timeout time.Duration, cache storage.AvatarCache, logger logrus.FieldLogger) *Resolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{
		client:  resty.New().SetTimeout(timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		cache:   cache,
		logger:  logger.WithField("component", "avatar"),
	}
}

// ImageURL returns the public image URL for handle.
func (r *Resolver) ImageURL(handle string) string {
	return r.baseURL + "/twitter/" + url.PathEscape(handle)
}

// Lookup returns the image URL for handle. A cached handle is never
// re-fetched. Concurrent lookups of the same handle share one probe; the
// probe is detached from any single caller, so a caller that goes away
// only ends its own wait.
func (r *Resolver) Lookup(ctx context.Context, handle string) (string, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return "", storage.ErrInvalidInput
	}

	if cached, err := r.cache.Get(ctx, handle); err == nil {
		observability.RecordAvatarLookup("hit")
		return cached, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		r.logger.WithError(err).WithField("handle", handle).Warn("Avatar cache read failed")
	}

	ch := r.group.DoChan(strings.ToLower(handle), func() (interface{}, error) {
		probeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()
		return r.probe(probeCtx, handle)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (r *Resolver) probe(ctx context.Context, handle string) (string, error) {
	imageURL := r.ImageURL(handle)
	start := time.Now()

	resp, err := r.client.R().SetContext(ctx).Get(imageURL)
	observability.RecordAPICall("unavatar", "twitter", time.Since(start).Seconds(), err)
	if err != nil {
		observability.RecordAvatarLookup("error")
		r.logger.WithError(err).WithField("handle", handle).Warn("Avatar probe failed")
		return "", fmt.Errorf("probe avatar for %s: %w", handle, err)
	}
	if !resp.IsSuccess() {
		observability.RecordAvatarLookup("miss")
		r.logger.WithFields(logrus.Fields{
			"handle": handle,
			"status": resp.StatusCode(),
		}).Debug("Avatar not available")
		return "", ErrNotFound
	}

	if err := r.cache.Set(ctx, handle, imageURL); err != nil {
		r.logger.WithError(err).WithField("handle", handle).Warn("Avatar cache write failed")
	}
	observability.RecordAvatarLookup("fetched")
	return imageURL, nil
}

// Initials returns the placeholder shown when no image is available:
// the first two letters or digits of the handle, upper-cased.
func Initials(handle string) string {
	var b strings.Builder
	n := 0
	for _, r := range strings.TrimPrefix(handle, "@") {
		if n == 2 {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
			n++
		}
	}
	return b.String()
}
