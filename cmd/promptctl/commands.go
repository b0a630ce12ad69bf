package main

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/promptdeck/internal/catalog"
	"github.com/JaimeStill/promptdeck/internal/prompts"
	"github.com/JaimeStill/promptdeck/pkg/pagination"
)

func (c *cli) listCmd() *cobra.Command {
	var (
		filters  prompts.Filters
		status   string
		sort     string
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List prompts with search, filters, sorting and paging",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(func(s *session) error {
				q := url.Values{}
				q.Set("search", filters.Search)
				q.Set("sort", sort)
				if page > 0 {
					q.Set("page", strconv.Itoa(page))
				}
				if pageSize > 0 {
					q.Set("page_size", strconv.Itoa(pageSize))
				}

				f := filters
				f.Status = prompts.Status(status)
				req := pagination.PageRequestFromQuery(q, s.pagination)

				result, err := s.prompts.Search(cmd.Context(), req, f)
				if err != nil {
					return err
				}
				return c.print(result)
			})
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&filters.Search, "search", "s", "", "free-text match across descriptive fields")
	fs.StringVar(&filters.Model, "model", "", "exact model")
	fs.StringVar(&status, "status", "", "exact status")
	fs.StringVar(&filters.Category, "category", "", "exact category")
	fs.StringVar(&filters.Provider, "provider", "", "exact provider")
	fs.StringVar(&sort, "sort", "", "sort key, prefix with - for descending (e.g. -updatedDate)")
	fs.IntVar(&page, "page", 1, "page number")
	fs.IntVar(&pageSize, "page-size", 0, "page size (default from config)")

	return cmd
}

func (c *cli) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a prompt with its full version history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := prompts.ParseID(args[0])
			if err != nil {
				return err
			}
			return c.withSession(func(s *session) error {
				rec, err := s.prompts.Find(cmd.Context(), id)
				if err != nil {
					return err
				}
				return c.print(rec)
			})
		},
	}
}

func (c *cli) createCmd() *cobra.Command {
	var flags inputFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a prompt at version 1.0.0",
		Example: `  promptctl create --name "Support Bot" --description "Answers tickets" --model gpt-4
  promptctl create -f prompt.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := flags.apply(cmd, prompts.Input{})
			if err != nil {
				return err
			}
			return c.withSession(func(s *session) error {
				rec, err := s.prompts.Create(cmd.Context(), prompts.CreateCommand{Input: in, ChangeLog: flags.changeLog})
				if err != nil {
					return err
				}
				return c.print(rec)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *cli) updateCmd() *cobra.Command {
	var flags inputFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a prompt, recording the next patch version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := prompts.ParseID(args[0])
			if err != nil {
				return err
			}
			return c.withSession(func(s *session) error {
				rec, err := s.prompts.Find(cmd.Context(), id)
				if err != nil {
					return err
				}

				in, err := flags.apply(cmd, rec.Input())
				if err != nil {
					return err
				}

				updated, err := s.prompts.Update(cmd.Context(), id, prompts.UpdateCommand{Input: in, ChangeLog: flags.changeLog})
				if err != nil {
					return err
				}
				return c.print(updated)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *cli) deleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a prompt and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := prompts.ParseID(args[0])
			if err != nil {
				return err
			}
			return c.withSession(func(s *session) error {
				rec, err := s.prompts.Find(cmd.Context(), id)
				if err != nil {
					return err
				}

				if !yes {
					ok, err := c.confirm(cmd, fmt.Sprintf("Delete %q and all %d versions?", rec.Name, len(rec.Versions)))
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(cmd.ErrOrStderr(), "delete cancelled")
						return nil
					}
				}

				if err := s.prompts.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "deleted prompt %d\n", id)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func (c *cli) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "List a prompt's versions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := prompts.ParseID(args[0])
			if err != nil {
				return err
			}
			return c.withSession(func(s *session) error {
				versions, err := s.prompts.History(cmd.Context(), id)
				if err != nil {
					return err
				}
				return c.print(prompts.HistoryNewestFirst(versions))
			})
		},
	}
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version <id> <label>",
		Short: "Show one version snapshot of a prompt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := prompts.ParseID(args[0])
			if err != nil {
				return err
			}
			return c.withSession(func(s *session) error {
				snap, err := s.prompts.Version(cmd.Context(), id, args[1])
				if err != nil {
					return err
				}
				return c.print(snap)
			})
		},
	}
}

func (c *cli) compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <id> <left> <right>",
		Short: "Compare two versions of a prompt side by side",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := prompts.ParseID(args[0])
			if err != nil {
				return err
			}
			return c.withSession(func(s *session) error {
				cmp, err := s.prompts.Compare(cmd.Context(), id, args[1], args[2])
				if err != nil {
					return err
				}
				return c.print(cmp)
			})
		},
	}
}

func (c *cli) catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [model-id]",
		Short: "Show the model catalog and editor options, or one model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				m, err := catalog.FindModel(args[0])
				if err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				return c.print(m)
			}
			return c.print(catalog.NewOptions(prompts.StatusNames(), prompts.EnvironmentNames()))
		},
	}
}
