package cli

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/salt/printer"
	"github.com/goto/salt/term"
	"github.com/goto/sieve/core/filter"
	"github.com/goto/sieve/core/query"
	"github.com/goto/sieve/core/record"
	"github.com/goto/sieve/core/savedsearch"
	"github.com/goto/sieve/core/search"
	"github.com/goto/sieve/pkg/telemetry"
	"github.com/spf13/cobra"
)

type searchFlags struct {
	records       string
	schema        string
	filters       []string
	sort          string
	fields        []string
	limit         uint
	threshold     float64
	exact         bool
	caseSensitive bool
	noFuzzy       bool
	saved         string
	suggest       bool
	out           string
}

func searchCommand(cfg *Config) *cobra.Command {
	var flags searchFlags
	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search, filter and sort records from a file",
		Annotations: map[string]string{
			"group": "core",
		},
		Args: cobra.MaximumNArgs(1),
		Example: heredoc.Doc(`
			$ sieve search rahul --records loans.json
			$ sieve search --records loans.yaml --filter totalValue:between:100000,300000 --sort totalValue:desc
			$ sieve search --records loans.json --saved 01H2XK1W7J6Y3QZ5V8N4R2T9C0
			$ sieve search rah --records loans.json --suggest
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, cfg)
			if err != nil {
				return err
			}

			records, err := parseRecords(flags.records)
			if err != nil {
				return err
			}

			var schema record.Schema
			if flags.schema != "" {
				if schema, err = parseSchema(flags.schema); err != nil {
					return err
				}
			}

			opts := searchOptions(cmd, cfg.Search.Options, flags)
			if err := opts.Validate(); err != nil {
				return err
			}

			var text string
			if len(args) > 0 {
				text = args[0]
			}

			if flags.suggest {
				engine := search.NewEngine(records, opts, search.WithSchema(schema))
				for _, s := range engine.Suggest(text, int(opts.Limit)) {
					fmt.Fprintln(cmd.OutOrStdout(), s)
				}
				return nil
			}

			in, err := searchInput(cmd, cfg, text, flags)
			if err != nil {
				return err
			}

			logger := initLogger(cfg.LogLevel)
			reporter := initStatsdReporter(logger, *cfg)
			defer reporter.Close()

			telemetryCfg := cfg.Telemetry
			telemetryCfg.AppVersion = Version
			nrApp, cleanUp, err := telemetry.Init(cmd.Context(), telemetryCfg, logger)
			if err != nil {
				return err
			}
			defer cleanUp()

			txn := nrApp.StartTransaction("search")
			defer txn.End()

			ctrl := query.New(records,
				query.WithSearchOptions(opts),
				query.WithSchema(schema),
				query.WithDebounce(cfg.Search.Debounce),
				query.WithLogger(logger),
				query.WithStatsDReporter(reporter),
			)
			defer ctrl.Close()

			ctrl.SetInput(in)
			results := ctrl.Flush()
			txn.AddAttribute("records", len(records))
			txn.AddAttribute("results", len(results))

			if flags.out == "json" {
				fmt.Fprintln(cmd.OutOrStdout(), prettyPrint(results))
				return nil
			}

			columns := search.NewEngine(records, opts, search.WithSchema(schema)).Fields()
			printer.Table(cmd.OutOrStdout(), recordTable(columns, results))
			fmt.Fprintln(cmd.OutOrStdout(), term.Cyanf("%d of %d records", len(results), len(records)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.records, "records", "r", "", "JSON or YAML file holding a list of records")
	cmd.Flags().StringVar(&flags.schema, "schema", "", "JSON or YAML file holding the searchable fields")
	cmd.Flags().StringArrayVarP(&flags.filters, "filter", "f", nil, "--filter=field:operator:value, repeat to combine")
	cmd.Flags().StringVarP(&flags.sort, "sort", "s", "", "--sort=field:asc or --sort=field:desc")
	cmd.Flags().StringSliceVar(&flags.fields, "fields", nil, "--fields=name,account.id restrict search to fields")
	cmd.Flags().UintVarP(&flags.limit, "limit", "l", 0, "maximum number of ranked results, 0 for unlimited")
	cmd.Flags().Float64VarP(&flags.threshold, "threshold", "t", 0, "minimum field score between 0 and 1")
	cmd.Flags().BoolVar(&flags.exact, "exact", false, "only match fields equal to the text")
	cmd.Flags().BoolVar(&flags.caseSensitive, "case-sensitive", false, "match case")
	cmd.Flags().BoolVar(&flags.noFuzzy, "no-fuzzy", false, "disable fuzzy scoring")
	cmd.Flags().StringVar(&flags.saved, "saved", "", "apply the saved search with this id")
	cmd.Flags().BoolVar(&flags.suggest, "suggest", false, "print field values matching the text instead of records")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "table", "flag to control output viewing, for json `-o json`")

	if err := cmd.MarkFlagRequired("records"); err != nil {
		panic(err)
	}
	return cmd
}

// searchOptions overlays flags the user set on the configured defaults.
func searchOptions(cmd *cobra.Command, opts search.Options, flags searchFlags) search.Options {
	if cmd.Flags().Changed("limit") {
		opts.Limit = flags.limit
	}
	if cmd.Flags().Changed("threshold") {
		opts.Threshold = flags.threshold
	}
	if cmd.Flags().Changed("fields") {
		opts.Fields = flags.fields
	}
	if flags.exact {
		opts.ExactMatch = true
	}
	if flags.caseSensitive {
		opts.CaseSensitive = true
	}
	if flags.noFuzzy {
		opts.Fuzzy = false
	}
	return opts
}

// searchInput starts from the saved search when one is given; explicit
// text, filters and sort replace its parts.
func searchInput(cmd *cobra.Command, cfg *Config, text string, flags searchFlags) (query.Input, error) {
	var in query.Input
	if flags.saved != "" {
		err := withSavedSearches(cmd.Context(), cfg, func(svc *savedsearch.Service) error {
			ss, ok := svc.Load(flags.saved)
			if !ok {
				return savedsearch.NotFoundError{ID: flags.saved}
			}
			in = query.Input{Query: ss.Query, Filters: ss.Filters, Sort: ss.Sort}
			return nil
		})
		if err != nil {
			return query.Input{}, err
		}
	}

	if text != "" {
		in.Query = text
	}
	if len(flags.filters) > 0 {
		in.Filters = nil
		for _, s := range flags.filters {
			f, err := parseFilter(s)
			if err != nil {
				return query.Input{}, err
			}
			in.Filters = append(in.Filters, f)
		}
	}
	if flags.sort != "" {
		srt, err := parseSort(flags.sort)
		if err != nil {
			return query.Input{}, err
		}
		in.Sort = srt
	}
	return in, nil
}

func recordTable(columns []string, records []record.Record) [][]string {
	header := make([]string, 0, len(columns))
	for _, c := range columns {
		header = append(header, strings.ToUpper(c))
	}

	report := [][]string{header}
	for _, r := range records {
		row := make([]string, 0, len(columns))
		for _, c := range columns {
			v, ok := record.Lookup(r, c)
			if !ok || v == nil {
				row = append(row, "-")
				continue
			}
			row = append(row, record.Stringify(v))
		}
		report = append(report, row)
	}
	return report
}

func filterSummary(filters []filter.Filter) string {
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		if f.Label != "" {
			parts = append(parts, f.Label)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s %v", f.Field, f.Operator, f.Value))
	}
	return strings.Join(parts, "; ")
}
