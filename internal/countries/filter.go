package countries

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/inovacc/countrydesk/internal/model"
)

// filterEnv is what a filter expression sees for each country.
type filterEnv struct {
	Name          string   `expr:"Name"`
	Code          string   `expr:"Code"`
	Capital       string   `expr:"Capital"`
	Emoji         string   `expr:"Emoji"`
	Languages     []string `expr:"Languages"`
	LanguageCodes []string `expr:"LanguageCodes"`
}

func envFor(c model.Country) filterEnv {
	env := filterEnv{
		Name:          c.Name,
		Code:          c.Code,
		Capital:       c.Capital,
		Emoji:         c.Emoji,
		Languages:     make([]string, len(c.Languages)),
		LanguageCodes: make([]string, len(c.Languages)),
	}

	for i, l := range c.Languages {
		env.Languages[i] = l.Name
		env.LanguageCodes[i] = l.Code
	}

	return env
}

// Filter is a compiled boolean expression over a country.
type Filter struct {
	source  string
	program *vm.Program
}

// CompileFilter type-checks expression against the country fields. An empty expression
// matches everything.
func CompileFilter(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return &Filter{}, nil
	}

	program, err := expr.Compile(expression, expr.Env(filterEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expression, err)
	}

	return &Filter{source: expression, program: program}, nil
}

// String returns the expression source.
func (f *Filter) String() string {
	return f.source
}

// Match reports whether c satisfies the expression.
func (f *Filter) Match(c model.Country) (bool, error) {
	if f.program == nil {
		return true, nil
	}

	out, err := expr.Run(f.program, envFor(c))
	if err != nil {
		return false, fmt.Errorf("evaluate filter for %s: %w", c.Code, err)
	}

	ok, _ := out.(bool)

	return ok, nil
}

// Apply returns the countries that match, preserving order.
func (f *Filter) Apply(list []model.Country) ([]model.Country, error) {
	if f.program == nil {
		return list, nil
	}

	out := make([]model.Country, 0, len(list))

	for _, c := range list {
		ok, err := f.Match(c)
		if err != nil {
			return nil, err
		}

		if ok {
			out = append(out, c)
		}
	}

	return out, nil
}
