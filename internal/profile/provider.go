package profile

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/pestdocs/pestdocs/internal/printable"
)

var errEmptyProfile = errors.New("profile: backend returned no company name")

// Source fetches the raw issuer profile.
type Source interface {
	FetchCompanyProfile(ctx context.Context) (map[string]any, error)
}

// Provider resolves the company profile through the cache. Concurrent misses share
// one backend call.
type Provider struct {
	source Source
	cache  *Cache
	group  singleflight.Group
	logger *slog.Logger
}

// NewProvider wires a Provider. cache may be nil.
func NewProvider(source Source, cache *Cache, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{source: source, cache: cache, logger: logger}
}

// Company never fails: when the backend has no usable profile the hardcoded
// fallback is returned.
func (p *Provider) Company(ctx context.Context) printable.CompanyProfile {
	profile, err := p.load(ctx)
	if err != nil {
		p.logger.Warn("company profile unavailable, using fallback", slog.Any("error", err))
		return printable.DefaultCompanyProfile()
	}
	return profile
}

// Invalidate drops the cached profile.
func (p *Provider) Invalidate(ctx context.Context) error {
	return p.cache.Bump(ctx)
}

func (p *Provider) load(ctx context.Context) (printable.CompanyProfile, error) {
	ch := p.group.DoChan("company", func() (any, error) {
		return p.fetchCached(ctx)
	})
	select {
	case <-ctx.Done():
		return printable.CompanyProfile{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return printable.CompanyProfile{}, res.Err
		}
		return res.Val.(printable.CompanyProfile), nil
	}
}

func (p *Provider) fetchCached(ctx context.Context) (printable.CompanyProfile, error) {
	if p.source == nil {
		return printable.CompanyProfile{}, errors.New("profile: no source configured")
	}
	var (
		out       printable.CompanyProfile
		loaderErr error
	)
	key, err := p.cache.BuildKey(ctx, "profile", "company")
	if err == nil {
		err = p.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
			profile, err := p.fetch(ctx)
			loaderErr = err
			return profile, err
		})
	}
	switch {
	case err == nil:
		return out, nil
	case loaderErr != nil:
		return printable.CompanyProfile{}, loaderErr
	case ctx.Err() != nil:
		return printable.CompanyProfile{}, ctx.Err()
	}
	p.logger.Warn("profile cache unavailable", slog.Any("error", err))
	return p.fetch(ctx)
}

func (p *Provider) fetch(ctx context.Context) (printable.CompanyProfile, error) {
	raw, err := p.source.FetchCompanyProfile(ctx)
	if err != nil {
		return printable.CompanyProfile{}, err
	}
	profile := printable.CompanyProfileFromMap(raw)
	if profile.Name == "" {
		return printable.CompanyProfile{}, errEmptyProfile
	}
	return profile, nil
}
