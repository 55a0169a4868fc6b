// cmd/gallery/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/codr1/themegallery/internal/clipboard"
	"github.com/codr1/themegallery/internal/config"
	"github.com/codr1/themegallery/internal/db"
	"github.com/codr1/themegallery/internal/gallery"
	"github.com/codr1/themegallery/internal/models"
)

type options struct {
	configPath string
	query      string
	tag        string
	sort       string
	jsonOutput bool
	pageURL    string
}

// session is one CLI invocation's view of the gallery.
type session struct {
	config     *config.Config
	controller *gallery.Controller
	database   *db.DB
	out        io.Writer
	errOut     io.Writer
	styles     styles
}

func (s *session) Close() error {
	return s.database.Close()
}

type copier interface {
	Copy(ctx context.Context, text string) error
}

var newCopier = func() copier { return clipboard.New() }

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger(w io.Writer, development bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if development {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "gallery",
		Short:         "Browse and apply gallery themes",
		Long:          "Browse a hosted theme gallery, inspect theme payloads, and apply one as the stored theme.",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "config.yaml", "path to the configuration file")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print JSON instead of styled text")

	root.AddCommand(
		newListCmd(opts),
		newInspectCmd(opts),
		newApplyCmd(opts),
		newAppliedCmd(opts),
		newShareCmd(opts),
	)
	return root
}

// openSession loads configuration, opens the database, and wires a
// controller whose notifications are printed to stderr.
func openSession(cmd *cobra.Command, opts *options) (*session, context.Context, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.IsDevelopment())
	ctx := logger.WithContext(cmd.Context())

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	source, err := gallery.NewSourceFromConfig(cfg.Gallery)
	if err != nil {
		_ = database.Close()
		return nil, nil, fmt.Errorf("configure gallery source: %w", err)
	}

	s := &session{
		config:   cfg,
		database: database,
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
		styles:   defaultStyles(),
	}
	store := models.NewAppliedThemeStore(database.Queries, cfg.Gallery.StorageKey)
	s.controller = gallery.NewController(source, store, gallery.NotifierFunc(s.printNotification))

	log.Ctx(ctx).Debug().Str("source", cfg.Gallery.SourceURL).Msg("Gallery session opened")
	return s, ctx, nil
}

func (s *session) printNotification(_ context.Context, n gallery.Notification) {
	style := s.styles.Success
	if n.Kind == gallery.NotifyFailure {
		style = s.styles.Error
	}
	fmt.Fprintln(s.errOut, style.Render(n.Message))
}
