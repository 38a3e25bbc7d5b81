package countries

import (
	"context"

	"github.com/inovacc/countrydesk/internal/model"
)

// Source provides the dashboard's remote data.
type Source interface {
	// List returns every country, in API order.
	List(ctx context.Context) ([]model.Country, error)
	// Get returns the detail record for a country code.
	Get(ctx context.Context, code string) (model.CountryDetail, error)
}
