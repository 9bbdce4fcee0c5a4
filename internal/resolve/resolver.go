package resolve

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go_sitebuilder/internal/cache"
	"go_sitebuilder/internal/domainutil"
	"go_sitebuilder/internal/model"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// ErrNotFound means no tenant serves the requested slug or host.
// Callers render the platform's not-found page; this is an expected
// outcome, not a failure.
var ErrNotFound = errors.New("no tenant for request")

const cacheTTL = 5 * time.Minute

// Directory is the tenant lookup surface the resolver needs
type Directory interface {
	TenantByID(id int) (*model.Tenant, error)
	TenantBySlug(slug string) (*model.Tenant, error)
	TenantBySubdomain(label string) (*model.Tenant, error)
	TenantByVerifiedDomain(host string) (*model.Tenant, error)
}

// Resolver maps an incoming request to a tenant. Slug takes precedence
// over host; hosts are normalized before lookup so that www-prefixed and
// ported variants land on the same tenant. Positive lookups are cached
// in Redis for a short window.
type Resolver struct {
	dir        Directory
	rdb        *redis.Client
	baseDomain string
	log        *logrus.Entry
}

// NewResolver creates a resolver. rdb may be nil to disable caching.
func NewResolver(dir Directory, rdb *redis.Client, baseDomain string) *Resolver {
	return &Resolver{
		dir:        dir,
		rdb:        rdb,
		baseDomain: baseDomain,
		log:        logrus.WithField("component", "resolve"),
	}
}

// Resolve finds the tenant for a request. A non-empty slug wins over the
// host; the host path is only consulted when no slug was given.
func (r *Resolver) Resolve(ctx context.Context, slug, host string) (*model.Tenant, error) {
	if slug != "" {
		return r.BySlug(ctx, slug)
	}
	return r.ByHost(ctx, host)
}

// BySlug resolves a path-mode request
func (r *Resolver) BySlug(ctx context.Context, slug string) (*model.Tenant, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, ErrNotFound
	}

	if tenant := r.cached(ctx, cache.SlugResolveKey(slug)); tenant != nil {
		return tenant, nil
	}

	tenant, err := r.dir.TenantBySlug(slug)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, ErrNotFound
	}

	r.remember(ctx, cache.SlugResolveKey(slug), tenant.ID)
	return tenant, nil
}

// ByHost resolves a subdomain or custom-domain request. The bare base
// domain is the platform's own site and never resolves to a tenant.
func (r *Resolver) ByHost(ctx context.Context, rawHost string) (*model.Tenant, error) {
	host, err := domainutil.Normalize(rawHost)
	if err != nil {
		return nil, ErrNotFound
	}
	if host == r.baseDomain {
		return nil, ErrNotFound
	}

	if tenant := r.cached(ctx, cache.HostResolveKey(host)); tenant != nil {
		return tenant, nil
	}

	var tenant *model.Tenant
	if label, ok := r.subdomainLabel(host); ok {
		tenant, err = r.dir.TenantBySubdomain(label)
	} else {
		tenant, err = r.dir.TenantByVerifiedDomain(host)
	}
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, ErrNotFound
	}

	r.remember(ctx, cache.HostResolveKey(host), tenant.ID)
	return tenant, nil
}

// subdomainLabel extracts the single label under the base domain.
// Multi-level subdomains do not resolve.
func (r *Resolver) subdomainLabel(host string) (string, bool) {
	suffix := "." + r.baseDomain
	if !strings.HasSuffix(host, suffix) {
		return "", false
	}
	label := strings.TrimSuffix(host, suffix)
	if label == "" || strings.Contains(label, ".") {
		return "", false
	}
	return label, true
}

// PurgeHost drops the cached resolution for a host
func (r *Resolver) PurgeHost(ctx context.Context, host string) {
	if r.rdb == nil {
		return
	}
	if err := r.rdb.Del(ctx, cache.HostResolveKey(host)).Err(); err != nil {
		r.log.WithField("host", host).WithError(err).Warn("cache purge failed")
	}
}

// PurgeSlug drops the cached resolution for a slug
func (r *Resolver) PurgeSlug(ctx context.Context, slug string) {
	if r.rdb == nil {
		return
	}
	if err := r.rdb.Del(ctx, cache.SlugResolveKey(slug)).Err(); err != nil {
		r.log.WithField("slug", slug).WithError(err).Warn("cache purge failed")
	}
}

func (r *Resolver) cached(ctx context.Context, key string) *model.Tenant {
	if r.rdb == nil {
		return nil
	}
	val, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.WithField("key", key).WithError(err).Warn("cache read failed")
		}
		return nil
	}
	id, err := strconv.Atoi(val)
	if err != nil {
		return nil
	}
	tenant, err := r.dir.TenantByID(id)
	if err != nil || tenant == nil {
		return nil
	}
	return tenant
}

func (r *Resolver) remember(ctx context.Context, key string, tenantID int) {
	if r.rdb == nil {
		return
	}
	if err := r.rdb.Set(ctx, key, strconv.Itoa(tenantID), cacheTTL).Err(); err != nil {
		r.log.WithField("key", key).WithError(err).Warn("cache write failed")
	}
}
