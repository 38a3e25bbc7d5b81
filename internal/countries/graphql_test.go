package countries

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/inovacc/countrydesk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

const listResponse = `{"data":{"countries":[
	{"name":"Andorra","code":"AD","capital":"Andorra la Vella","emoji":"🇦🇩","languages":[{"code":"ca","name":"Catalan"}]},
	{"name":"Antarctica","code":"AQ","capital":null,"emoji":"🇦🇶","languages":[]},
	{"name":"Brazil","code":"BR","capital":"Brasília","emoji":"🇧🇷","languages":[{"code":"pt","name":"Portuguese"}]}
]}}`

const brazilResponse = `{"data":{"country":{"name":"Brazil","native":"Brasil","capital":"Brasília","emoji":"🇧🇷","currency":"BRL","languages":[{"code":"pt","name":"Portuguese"}]}}}`

// fakeAPI answers the two operations the client issues and records the requests it saw.
func fakeAPI(t *testing.T) (*httptest.Server, *[]gqlRequest) {
	t.Helper()

	var seen []gqlRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		seen = append(seen, req)

		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.Contains(req.Query, "country(code: $code)"):
			switch req.Variables["code"] {
			case "BR":
				_, _ = w.Write([]byte(brazilResponse))
			case "XX":
				_, _ = w.Write([]byte(`{"errors":[{"message":"upstream exploded"}],"data":null}`))
			default:
				_, _ = w.Write([]byte(`{"data":{"country":null}}`))
			}
		case strings.Contains(req.Query, "countries"):
			_, _ = w.Write([]byte(listResponse))
		default:
			http.Error(w, "unexpected query", http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)

	return srv, &seen
}

func TestGraphQL_List(t *testing.T) {
	srv, seen := fakeAPI(t)

	list, err := NewGraphQL(srv.URL, 5*time.Second, nil).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "Andorra", list[0].Name)
	assert.Equal(t, "Andorra la Vella", list[0].Capital)
	assert.Equal(t, "Catalan", model.LanguageNames(list[0].Languages))
	assert.Empty(t, list[1].Capital, "null capital decodes to empty")
	assert.Equal(t, "BR", list[2].Code)

	require.Len(t, *seen, 1)
	assert.Contains(t, (*seen)[0].Query, "GetCountries")
}

func TestGraphQL_Get(t *testing.T) {
	srv, seen := fakeAPI(t)

	d, err := NewGraphQL(srv.URL, 5*time.Second, nil).Get(context.Background(), " br ")
	require.NoError(t, err)

	assert.Equal(t, model.CountryDetail{
		Name:      "Brazil",
		Native:    "Brasil",
		Capital:   "Brasília",
		Emoji:     "🇧🇷",
		Currency:  "BRL",
		Languages: []model.Language{{Code: "pt", Name: "Portuguese"}},
	}, d)

	require.Len(t, *seen, 1)
	assert.Contains(t, (*seen)[0].Query, "GetCountry")
	assert.Equal(t, "BR", (*seen)[0].Variables["code"])
}

func TestGraphQL_GetNotFound(t *testing.T) {
	srv, _ := fakeAPI(t)
	client := NewGraphQL(srv.URL, 5*time.Second, nil)

	_, err := client.Get(context.Background(), "ZZ")
	assert.ErrorIs(t, err, ErrCountryNotFound)

	_, err = client.Get(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrCountryNotFound)
}

func TestGraphQL_QueryError(t *testing.T) {
	srv, _ := fakeAPI(t)

	_, err := NewGraphQL(srv.URL, 5*time.Second, nil).Get(context.Background(), "XX")
	require.Error(t, err)

	var qerr *QueryError
	require.True(t, errors.As(err, &qerr))
	assert.Equal(t, "GetCountry", qerr.Operation)
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestGraphQL_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := NewGraphQL(srv.URL, 5*time.Second, nil).List(context.Background())

	var qerr *QueryError
	require.True(t, errors.As(err, &qerr))
	assert.Equal(t, "GetCountries", qerr.Operation)
}

type countingSource struct {
	lists   atomic.Int32
	details atomic.Int32
	fail    bool
}

func (s *countingSource) List(context.Context) ([]model.Country, error) {
	s.lists.Add(1)

	if s.fail {
		return nil, errors.New("offline")
	}

	return []model.Country{{Name: "Brazil", Code: "BR"}}, nil
}

func (s *countingSource) Get(_ context.Context, code string) (model.CountryDetail, error) {
	s.details.Add(1)

	if code != "BR" {
		return model.CountryDetail{}, ErrCountryNotFound
	}

	return model.CountryDetail{Name: "Brazil"}, nil
}

func TestCached_ServesRepeatsFromCache(t *testing.T) {
	src := &countingSource{}
	cached := NewCached(src, 8, time.Minute)
	ctx := context.Background()

	for range 3 {
		list, err := cached.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		d, err := cached.Get(ctx, "br")
		require.NoError(t, err)
		assert.Equal(t, "Brazil", d.Name)
	}

	assert.Equal(t, int32(1), src.lists.Load())
	assert.Equal(t, int32(1), src.details.Load())

	cached.Purge()

	_, err := cached.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.lists.Load())
}

func TestCached_DoesNotCacheErrors(t *testing.T) {
	src := &countingSource{fail: true}
	cached := NewCached(src, 8, time.Minute)
	ctx := context.Background()

	_, err := cached.List(ctx)
	require.Error(t, err)

	_, err = cached.List(ctx)
	require.Error(t, err)
	assert.Equal(t, int32(2), src.lists.Load())

	_, err = cached.Get(ctx, "ZZ")
	assert.ErrorIs(t, err, ErrCountryNotFound)

	_, err = cached.Get(ctx, "ZZ")
	assert.ErrorIs(t, err, ErrCountryNotFound)
	assert.Equal(t, int32(2), src.details.Load())
}

// blockingSource holds every call until release is closed and honours the ctx it is given.
type blockingSource struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	err     error
}

func newBlockingSource(err error) *blockingSource {
	return &blockingSource{
		started: make(chan struct{}, 8),
		release: make(chan struct{}),
		err:     err,
	}
}

func (s *blockingSource) List(ctx context.Context) ([]model.Country, error) {
	s.calls.Add(1)
	s.started <- struct{}{}

	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if s.err != nil {
		return nil, s.err
	}

	return []model.Country{{Name: "Brazil", Code: "BR"}}, nil
}

func (s *blockingSource) Get(ctx context.Context, code string) (model.CountryDetail, error) {
	if _, err := s.List(ctx); err != nil {
		return model.CountryDetail{}, err
	}

	return model.CountryDetail{Name: "Brazil"}, nil
}

type listResult struct {
	list []model.Country
	err  error
}

func listAsync(ctx context.Context, c *Cached) <-chan listResult {
	out := make(chan listResult, 1)

	go func() {
		list, err := c.List(ctx)
		out <- listResult{list: list, err: err}
	}()

	return out
}

func TestCached_ConcurrentMissesShareOneRequest(t *testing.T) {
	// a failing source keeps the cache empty, so a late second caller would issue its own call
	src := newBlockingSource(errors.New("offline"))
	cached := NewCached(src, 8, time.Minute)

	first := listAsync(context.Background(), cached)
	<-src.started

	second := listAsync(context.Background(), cached)
	time.Sleep(50 * time.Millisecond)
	close(src.release)

	for _, ch := range []<-chan listResult{first, second} {
		res := <-ch
		assert.EqualError(t, res.err, "offline")
	}

	assert.Equal(t, int32(1), src.calls.Load())
}

func TestCached_CancelledCallerDoesNotFailOthers(t *testing.T) {
	src := newBlockingSource(nil)
	cached := NewCached(src, 8, time.Minute)

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()

	a := listAsync(ctxA, cached)
	<-src.started

	b := listAsync(context.Background(), cached)
	time.Sleep(50 * time.Millisecond)

	cancelA()

	resA := <-a
	assert.ErrorIs(t, resA.err, context.Canceled)

	close(src.release)

	resB := <-b
	require.NoError(t, resB.err)
	assert.Len(t, resB.list, 1)
	assert.Equal(t, int32(1), src.calls.Load())

	// the detached request still filled the cache
	list, err := cached.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestCached_GetSurvivesFirstCallerCancel(t *testing.T) {
	src := newBlockingSource(nil)
	cached := NewCached(src, 8, time.Minute)

	ctxA, cancelA := context.WithCancel(context.Background())

	errA := make(chan error, 1)

	go func() {
		_, err := cached.Get(ctxA, "br")
		errA <- err
	}()

	<-src.started
	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(src.release)

	d, err := cached.Get(context.Background(), "BR")
	require.NoError(t, err)
	assert.Equal(t, "Brazil", d.Name)
}
