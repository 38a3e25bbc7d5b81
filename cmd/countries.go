package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/inovacc/countrydesk/internal/countries"
	"github.com/inovacc/countrydesk/internal/model"
	"github.com/spf13/cobra"
)

var (
	countriesWhere string
	countriesJSON  bool
)

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "Query the countries API (requires a saved profile)",
}

var countriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every country with its capital and languages",
	Long: `List every country with its capital and languages.

--where takes an expression evaluated for each country. Available fields:
Name, Code, Capital, Emoji, Languages (names) and LanguageCodes.

Examples:
  countrydesk countries list
  countrydesk countries list --where '"Spanish" in Languages'
  countrydesk countries list --where 'Capital startsWith "B" && len(Languages) > 1' --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		filter, err := countries.CompileFilter(countriesWhere)
		if err != nil {
			return err
		}

		return withEnv(func(env *environment) error {
			if err := env.gate().Require(); err != nil {
				return err
			}

			list, err := env.source.List(cmd.Context())
			if err != nil {
				return err
			}

			list, err = filter.Apply(list)
			if err != nil {
				return err
			}

			if countriesJSON {
				return writeJSONTo(cmd.OutOrStdout(), list)
			}

			return printCountries(cmd.OutOrStdout(), list)
		})
	},
}

var countriesShowCmd = &cobra.Command{
	Use:   "show CODE",
	Short: "Show one country's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(func(env *environment) error {
			if err := env.gate().Require(); err != nil {
				return err
			}

			d, err := env.source.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if countriesJSON {
				return writeJSONTo(cmd.OutOrStdout(), d)
			}

			return printCountryDetail(cmd.OutOrStdout(), d)
		})
	},
}

func init() {
	rootCmd.AddCommand(countriesCmd)
	countriesCmd.AddCommand(countriesListCmd, countriesShowCmd)

	countriesCmd.PersistentFlags().BoolVar(&countriesJSON, "json", false, "Output as JSON")
	countriesListCmd.Flags().StringVar(&countriesWhere, "where", "", "Filter expression")
}

func printCountries(w io.Writer, list []model.Country) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CODE\tNAME\tCAPITAL\tLANGUAGES")

	for _, c := range list {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Code, c.Name, c.Capital, model.LanguageNames(c.Languages))
	}

	return tw.Flush()
}

func printCountryDetail(w io.Writer, d model.CountryDetail) error {
	_, _ = fmt.Fprintf(w, "%s\n\n", d.Title())
	_, _ = fmt.Fprintf(w, "Native:    %s\n", d.Native)
	_, _ = fmt.Fprintf(w, "Capital:   %s\n", d.Capital)
	_, _ = fmt.Fprintf(w, "Currency:  %s\n", d.Currency)
	_, _ = fmt.Fprintln(w, "Languages:")

	for _, l := range d.Languages {
		_, _ = fmt.Fprintf(w, "  • %s\n", l.Name)
	}

	return nil
}

func writeJSONTo(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
