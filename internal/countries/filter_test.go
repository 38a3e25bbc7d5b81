package countries

import (
	"testing"

	"github.com/inovacc/countrydesk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []model.Country{
	{Name: "Argentina", Code: "AR", Capital: "Buenos Aires", Languages: []model.Language{{Code: "es", Name: "Spanish"}, {Code: "gn", Name: "Guarani"}}},
	{Name: "Brazil", Code: "BR", Capital: "Brasília", Languages: []model.Language{{Code: "pt", Name: "Portuguese"}}},
	{Name: "Bolivia", Code: "BO", Capital: "Sucre", Languages: []model.Language{{Code: "es", Name: "Spanish"}, {Code: "ay", Name: "Aymara"}, {Code: "qu", Name: "Quechua"}}},
}

func codes(list []model.Country) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Code
	}

	return out
}

func TestFilter_Apply(t *testing.T) {
	tests := []struct {
		expr string
		want []string
	}{
		{"", []string{"AR", "BR", "BO"}},
		{`"Spanish" in Languages`, []string{"AR", "BO"}},
		{`Capital startsWith "B"`, []string{"AR", "BR"}},
		{`len(Languages) > 2`, []string{"BO"}},
		{`"pt" in LanguageCodes || Code == "BO"`, []string{"BR", "BO"}},
		{`Name == "Chile"`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f, err := CompileFilter(tt.expr)
			require.NoError(t, err)

			got, err := f.Apply(sample)
			require.NoError(t, err)
			assert.Equal(t, tt.want, codes(got))
		})
	}
}

func TestCompileFilter_Rejects(t *testing.T) {
	for _, src := range []string{
		`Population > 10`,
		`Name + 1`,
		`Name ==`,
	} {
		_, err := CompileFilter(src)
		assert.Error(t, err, src)
	}
}

func TestFilter_Match(t *testing.T) {
	f, err := CompileFilter(`Code == "BR"`)
	require.NoError(t, err)
	assert.Equal(t, `Code == "BR"`, f.String())

	ok, err := f.Match(sample[1])
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.Match(sample[0])
	require.NoError(t, err)
	assert.False(t, ok)
}
