package countries

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/inovacc/countrydesk/internal/model"
	"golang.org/x/sync/singleflight"
)

const listKey = "countries"

// Cached decorates a Source with an expiring LRU. Concurrent misses for the same key share
// one upstream request. Errors are never cached.
//
// The shared request runs detached from the caller that started it, so one caller giving up
// does not fail the others; it is bounded by the wrapped source's own timeout. Each caller
// still stops waiting when its ctx is done.
type Cached struct {
	src     Source
	lists   *expirable.LRU[string, []model.Country]
	details *expirable.LRU[string, model.CountryDetail]
	group   singleflight.Group
}

// NewCached wraps src. A size of zero means unbounded; a ttl of zero disables expiry.
func NewCached(src Source, size int, ttl time.Duration) *Cached {
	if size < 0 {
		size = 0
	}

	return &Cached{
		src:     src,
		lists:   expirable.NewLRU[string, []model.Country](1, nil, ttl),
		details: expirable.NewLRU[string, model.CountryDetail](size, nil, ttl),
	}
}

func (c *Cached) List(ctx context.Context) ([]model.Country, error) {
	if list, ok := c.lists.Get(listKey); ok {
		return list, nil
	}

	shared := context.WithoutCancel(ctx)

	v, err := wait(ctx, c.group.DoChan(listKey, func() (any, error) {
		list, err := c.src.List(shared)
		if err != nil {
			return nil, err
		}

		c.lists.Add(listKey, list)

		return list, nil
	}))
	if err != nil {
		return nil, err
	}

	return v.([]model.Country), nil
}

func (c *Cached) Get(ctx context.Context, code string) (model.CountryDetail, error) {
	code = NormalizeCode(code)

	if d, ok := c.details.Get(code); ok {
		return d, nil
	}

	shared := context.WithoutCancel(ctx)

	v, err := wait(ctx, c.group.DoChan("country:"+code, func() (any, error) {
		d, err := c.src.Get(shared, code)
		if err != nil {
			return nil, err
		}

		c.details.Add(code, d)

		return d, nil
	}))
	if err != nil {
		return model.CountryDetail{}, err
	}

	return v.(model.CountryDetail), nil
}

func wait(ctx context.Context, ch <-chan singleflight.Result) (any, error) {
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Purge drops every cached answer.
func (c *Cached) Purge() {
	c.lists.Purge()
	c.details.Purge()
}
