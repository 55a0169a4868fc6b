package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/codr1/themegallery/internal/gallery"
	"github.com/codr1/themegallery/internal/models"
)

const tablePadding = 2

func newListCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List gallery themes",
		Long:  "List the gallery, filtered by --query and --tag and ordered by --sort (trending, new, popular).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ctx, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.controller.Reload(ctx); err != nil {
				return err
			}
			s.controller.SetFilters(opts.query, opts.tag, gallery.ParseSortMode(opts.sort))
			items := s.controller.View()

			if opts.jsonOutput {
				return writeJSON(s.out, items)
			}

			appliedID := ""
			if applied, err := s.controller.Applied(ctx); err != nil {
				log.Ctx(ctx).Warn().Err(err).Msg("Failed to load applied theme")
			} else if applied != nil {
				appliedID = applied.ThemeID
			}
			return s.writeThemeTable(items, appliedID)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.query, "query", "", "match name, author, or tag (case-insensitive)")
	flags.StringVar(&opts.tag, "tag", "", "only themes carrying this tag")
	flags.StringVar(&opts.sort, "sort", string(gallery.SortTrending), "sort order: trending, new, or popular")
	return cmd
}

func newInspectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <id|share-link>",
		Short: "Show a theme's payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ctx, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.controller.Reload(ctx); err != nil {
				return err
			}
			selection, err := inspectTarget(ctx, s.controller, args[0])
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSON(s.out, struct {
					Summary models.ThemeSummary `json:"summary"`
					Theme   models.ThemePayload `json:"theme"`
				}{selection.Summary, selection.Payload})
			}

			pretty, err := selection.Payload.Pretty()
			if err != nil {
				return err
			}
			fmt.Fprintln(s.out, s.styles.Title.Render(selection.Summary.DisplayName()))
			fmt.Fprintln(s.out, s.styles.Muted.Render(selection.Summary.MetaLine()))
			fmt.Fprintln(s.out)
			fmt.Fprintln(s.out, pretty)
			return nil
		},
	}
}

// inspectTarget accepts either a theme id or a share link such as
// https://host/#theme=<id>.
func inspectTarget(ctx context.Context, c *gallery.Controller, target string) (*gallery.Selection, error) {
	_, fragment, isLink := strings.Cut(target, "#")
	if !isLink {
		return c.Inspect(ctx, target)
	}
	selection, ok := c.OpenDeepLink(ctx, fragment)
	if !ok {
		return nil, fmt.Errorf("share link %q does not name a listed theme", target)
	}
	return selection, nil
}

func newApplyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <id>",
		Short: "Validate a theme and store it as the applied theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ctx, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			// The listing only supplies the display name for the notification.
			if err := s.controller.Reload(ctx); err != nil {
				log.Ctx(ctx).Warn().Err(err).Msg("Listing unavailable, applying by id")
			}

			record, err := s.controller.Apply(ctx, args[0])
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(s.out, record)
			}
			return nil
		},
	}
}

func newAppliedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "applied",
		Short: "Show the stored applied theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ctx, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			record, err := s.controller.Applied(ctx)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(s.out, record)
			}
			if record == nil {
				fmt.Fprintln(s.out, s.styles.Muted.Render("No theme applied"))
				return nil
			}

			pretty, err := record.Payload.Pretty()
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "%s %s\n", s.styles.Title.Render(record.ThemeID),
				s.styles.Muted.Render("applied "+record.AppliedAt.Format("2006-01-02 15:04:05")))
			fmt.Fprintln(s.out, pretty)
			return nil
		},
	}
}

func newShareCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share <id>",
		Short: "Build a link that opens the gallery on a theme",
		Long:  "Build a share link for a theme and copy it to the clipboard when one is available.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ctx, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()
			logger := log.Ctx(ctx)
			id := args[0]

			if err := s.controller.Reload(ctx); err != nil {
				logger.Warn().Err(err).Msg("Listing unavailable, theme id not checked")
			} else if _, ok := s.controller.Summary(id); !ok {
				return gallery.ErrUnknownTheme
			}

			pageURL := opts.pageURL
			if pageURL == "" {
				pageURL = s.config.App.BaseURL
			}
			link, err := gallery.ShareLink(pageURL, id)
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSON(s.out, map[string]string{"themeId": id, "link": link})
			}

			fmt.Fprintln(s.out, link)
			if err := newCopier().Copy(ctx, link); err != nil {
				// Not fatal: the link is printed above.
				logger.Warn().Err(err).Str("link", link).Msg("Clipboard unavailable, copy the link manually")
				return nil
			}
			fmt.Fprintln(s.errOut, s.styles.Success.Render("Link copied"))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.pageURL, "page-url", "", "gallery page the link opens (default app.base_url)")
	return cmd
}

func (s *session) writeThemeTable(items []models.ThemeSummary, appliedID string) error {
	if len(items) == 0 {
		fmt.Fprintln(s.out, s.styles.Muted.Render("No themes match."))
		return nil
	}

	writer := tabwriter.NewWriter(s.out, 0, 0, tablePadding, ' ', 0)
	fmt.Fprintln(writer, strings.Join([]string{"", "ID", "NAME", "AUTHOR", "LIKES", "UPDATED", "TAGS"}, "\t"))
	for _, item := range items {
		marker := ""
		if item.ID == appliedID {
			marker = "*"
		}
		fmt.Fprintln(writer, strings.Join([]string{
			marker,
			item.ID,
			item.DisplayName(),
			item.DisplayAuthor(),
			strconv.Itoa(item.Likes),
			dashIfEmpty(item.UpdatedAt),
			strings.Join(item.Tags, ","),
		}, "\t"))
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(s.out, s.styles.Muted.Render(fmt.Sprintf("%d themes", len(items))))
	return nil
}

func dashIfEmpty(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func writeJSON(w io.Writer, payload any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
