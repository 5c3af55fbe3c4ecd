package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debemdeboas/draftboard/internal/autosave"
	"github.com/debemdeboas/draftboard/internal/editor"
	"github.com/debemdeboas/draftboard/internal/model"
)

func newListCommand(opts *rootOptions) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blogs, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if status == "all" {
				status = ""
			}
			blogs, err := opts.client().List(cmd.Context(), model.Status(status))
			if err != nil {
				return err
			}
			if len(blogs) == 0 {
				opts.printf("No blogs yet.\n")
				return nil
			}
			for _, b := range blogs {
				opts.printf("%s\n\n", editor.Card(b))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "all", "Filter by status: all, draft or published")
	return cmd
}

func newShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one blog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blog, err := opts.client().Get(cmd.Context(), model.BlogID(args[0]))
			if err != nil {
				return err
			}
			opts.printf("%s\n\n%s\n", editor.Card(*blog), blog.Content)
			return nil
		},
	}
}

func newDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a blog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.client().Delete(cmd.Context(), model.BlogID(args[0])); err != nil {
				return err
			}
			opts.printf("Blog deleted successfully\n")
			return nil
		},
	}
}

func newStatsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show blog counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := opts.client().Stats(cmd.Context())
			if err != nil {
				return err
			}
			opts.printf("%s\n", editor.StatsPanel(stats))
			return nil
		},
	}
}

func newPublishCommand(opts *rootOptions) *cobra.Command {
	var (
		id    string
		draft model.Draft
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a blog in one step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			blog, err := opts.client().Publish(cmd.Context(), draft, model.BlogID(id))
			if err != nil {
				return err
			}
			opts.printf("Blog published successfully: %s\n", blog.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Existing blog to publish")
	cmd.Flags().StringVar(&draft.Title, "title", "", "Blog title")
	cmd.Flags().StringVar(&draft.Content, "content", "", "Blog content")
	cmd.Flags().StringVar(&draft.Tags, "tags", "", "Comma-separated tags")
	return cmd
}

func newComposeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "compose [id]",
		Short: "Write a blog interactively with auto-save",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.client()

			var blog *model.Blog
			if len(args) == 1 {
				var err error
				if blog, err = c.Get(cmd.Context(), model.BlogID(args[0])); err != nil {
					return err
				}
			}

			notices := editor.NewNotices(opts.out)
			session := editor.NewSession(c, blog,
				append(opts.autosaveOptions(), autosave.WithStatusListener(notices.Listen))...)
			if err := session.Start(cmd.Context()); err != nil {
				return err
			}
			defer session.Close()

			if err := editor.NewComposer(session, opts.in, notices).Run(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(notices, "Blog %s\n", session.BlogID())
			return nil
		},
	}
}
