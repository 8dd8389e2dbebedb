package cli

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/salt/printer"
	"github.com/goto/salt/term"
	"github.com/goto/sieve/core/savedsearch"
	"github.com/spf13/cobra"
)

func savedCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "saved",
		Aliases: []string{"saved-search"},
		Short:   "Manage saved searches",
		Annotations: map[string]string{
			"group": "core",
		},
		Example: heredoc.Doc(`
			$ sieve saved list
			$ sieve saved create --name "large active loans" --filter totalValue:gte:300000
			$ sieve saved view <id>
			$ sieve saved delete <id>
		`),
	}

	cmd.AddCommand(
		listSavedCommand(cfg),
		createSavedCommand(cfg),
		viewSavedCommand(cfg),
		deleteSavedCommand(cfg),
		defaultSavedCommand(cfg),
	)
	return cmd
}

func listSavedCommand(cfg *Config) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "lists all saved searches",
		Example: heredoc.Doc(`
			$ sieve saved list
		`),
		Annotations: map[string]string{
			"action:core": "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, cfg)
			if err != nil {
				return err
			}

			return withSavedSearches(cmd.Context(), cfg, func(svc *savedsearch.Service) error {
				searches := svc.List()
				if out == "json" {
					fmt.Fprintln(cmd.OutOrStdout(), prettyPrint(searches))
					return nil
				}

				report := [][]string{{"ID", "NAME", "QUERY", "FILTERS", "DEFAULT"}}
				for _, ss := range searches {
					def := ""
					if ss.IsDefault {
						def = "*"
					}
					report = append(report, []string{ss.ID, ss.Name, ss.Query, filterSummary(ss.Filters), def})
				}
				printer.Table(cmd.OutOrStdout(), report)
				fmt.Fprintln(cmd.OutOrStdout(), term.Cyanf("To view all the data in JSON format, use flag `-o json`"))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "table", "flag to control output viewing, for json `-o json`")
	return cmd
}

func createSavedCommand(cfg *Config) *cobra.Command {
	var (
		ss      savedsearch.SavedSearch
		filters []string
		sort    string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "save a named query, filters and sort",
		Example: heredoc.Doc(`
			$ sieve saved create --name overdue --query rahul --filter status:equals:overdue --sort dueDate:asc
			$ sieve saved create --name mine --default
		`),
		Annotations: map[string]string{
			"action:core": "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, cfg)
			if err != nil {
				return err
			}

			for _, s := range filters {
				f, err := parseFilter(s)
				if err != nil {
					return err
				}
				ss.Filters = append(ss.Filters, f)
			}
			if sort != "" {
				if ss.Sort, err = parseSort(sort); err != nil {
					return err
				}
			}

			return withSavedSearches(cmd.Context(), cfg, func(svc *savedsearch.Service) error {
				saved, err := svc.Save(cmd.Context(), ss)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), term.Greenf("saved search created: %s", saved.ID))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&ss.Name, "name", "n", "", "name of the saved search")
	cmd.Flags().StringVarP(&ss.Description, "description", "d", "", "description of the saved search")
	cmd.Flags().StringVarP(&ss.Query, "query", "q", "", "search text")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "--filter=field:operator:value, repeat to combine")
	cmd.Flags().StringVarP(&sort, "sort", "s", "", "--sort=field:asc or --sort=field:desc")
	cmd.Flags().BoolVar(&ss.IsDefault, "default", false, "make this the default saved search")
	cmd.Flags().StringVar(&ss.ID, "id", "", "re-create the saved search under an existing id")
	return cmd
}

func viewSavedCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: "view saved search for the given id",
		Example: heredoc.Doc(`
			$ sieve saved view <id>
		`),
		Annotations: map[string]string{
			"action:core": "true",
		},
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, cfg)
			if err != nil {
				return err
			}

			return withSavedSearches(cmd.Context(), cfg, func(svc *savedsearch.Service) error {
				ss, ok := svc.Load(args[0])
				if !ok {
					return savedsearch.NotFoundError{ID: args[0]}
				}
				fmt.Fprintln(cmd.OutOrStdout(), prettyPrint(ss))
				return nil
			})
		},
	}
}

func deleteSavedCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "delete the saved search for the given id",
		Example: heredoc.Doc(`
			$ sieve saved delete <id>
		`),
		Annotations: map[string]string{
			"action:core": "true",
		},
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, cfg)
			if err != nil {
				return err
			}

			return withSavedSearches(cmd.Context(), cfg, func(svc *savedsearch.Service) error {
				if err := svc.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), term.Greenf("saved search deleted: %s", args[0]))
				return nil
			})
		},
	}
}

func defaultSavedCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "default",
		Short: "view the default saved search",
		Example: heredoc.Doc(`
			$ sieve saved default
		`),
		Annotations: map[string]string{
			"action:core": "true",
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, cfg)
			if err != nil {
				return err
			}

			return withSavedSearches(cmd.Context(), cfg, func(svc *savedsearch.Service) error {
				ss, ok := svc.Default()
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), term.Yellow("no default saved search"))
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), prettyPrint(ss))
				return nil
			})
		},
	}
}
