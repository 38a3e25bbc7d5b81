package countries

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	graphql "github.com/hasura/go-graphql-client"
	"github.com/inovacc/countrydesk/internal/model"
)

type languageNode struct {
	Code string `graphql:"code"`
	Name string `graphql:"name"`
}

type countryNode struct {
	Name      string         `graphql:"name"`
	Code      string         `graphql:"code"`
	Capital   *string        `graphql:"capital"`
	Emoji     string         `graphql:"emoji"`
	Languages []languageNode `graphql:"languages"`
}

type countryDetailNode struct {
	Name      string         `graphql:"name"`
	Native    string         `graphql:"native"`
	Capital   *string        `graphql:"capital"`
	Emoji     string         `graphql:"emoji"`
	Currency  *string        `graphql:"currency"`
	Languages []languageNode `graphql:"languages"`
}

// GraphQL is a Source backed by the countries GraphQL endpoint.
type GraphQL struct {
	client *graphql.Client
	logger *slog.Logger
}

// NewGraphQL returns a client for endpoint. A zero timeout leaves the HTTP client unbounded.
func NewGraphQL(endpoint string, timeout time.Duration, logger *slog.Logger) *GraphQL {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	httpClient := &http.Client{Timeout: timeout}

	return &GraphQL{
		client: graphql.NewClient(endpoint, httpClient),
		logger: logger,
	}
}

func (g *GraphQL) List(ctx context.Context) ([]model.Country, error) {
	var q struct {
		Countries []countryNode `graphql:"countries"`
	}

	start := time.Now()

	if err := g.client.Query(ctx, &q, nil, graphql.OperationName("GetCountries")); err != nil {
		return nil, &QueryError{Operation: "GetCountries", Err: err}
	}

	g.logger.Debug("countries fetched", "count", len(q.Countries), "took", time.Since(start))

	out := make([]model.Country, len(q.Countries))
	for i, c := range q.Countries {
		out[i] = model.Country{
			Name:      c.Name,
			Code:      c.Code,
			Capital:   deref(c.Capital),
			Emoji:     c.Emoji,
			Languages: toLanguages(c.Languages),
		}
	}

	return out, nil
}

func (g *GraphQL) Get(ctx context.Context, code string) (model.CountryDetail, error) {
	code = NormalizeCode(code)
	if code == "" {
		return model.CountryDetail{}, ErrCountryNotFound
	}

	var q struct {
		Country *countryDetailNode `graphql:"country(code: $code)"`
	}

	vars := map[string]any{
		"code": graphql.ID(code),
	}

	if err := g.client.Query(ctx, &q, vars, graphql.OperationName("GetCountry")); err != nil {
		return model.CountryDetail{}, &QueryError{Operation: "GetCountry", Err: err}
	}

	if q.Country == nil {
		return model.CountryDetail{}, ErrCountryNotFound
	}

	c := q.Country

	return model.CountryDetail{
		Name:      c.Name,
		Native:    c.Native,
		Capital:   deref(c.Capital),
		Emoji:     c.Emoji,
		Currency:  deref(c.Currency),
		Languages: toLanguages(c.Languages),
	}, nil
}

// NormalizeCode upper-cases and trims an ISO 3166 alpha-2 code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func toLanguages(nodes []languageNode) []model.Language {
	out := make([]model.Language, len(nodes))
	for i, l := range nodes {
		out[i] = model.Language{Code: l.Code, Name: l.Name}
	}

	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
