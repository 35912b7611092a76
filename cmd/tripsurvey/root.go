package main

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-tripsurvey"
	"github.com/goliatone/go-tripsurvey/components/tourcodes"
	"github.com/goliatone/go-tripsurvey/internal/config"
	"github.com/goliatone/go-tripsurvey/internal/logging"
	"github.com/goliatone/go-tripsurvey/pkg/transport"
)

var errNoSession = errors.New("tripsurvey: session not initialised")

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	verbose    bool
	storage    string
	statePath  string
	endpoint   string

	cfg     *config.Config
	logger  *zap.Logger
	session *tripsurvey.Session
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "tripsurvey",
		Short: "Fill in and submit the BTY trip survey",
		Long: `tripsurvey walks a tour leader through the BTY (Better Than Yesterday)
trip report. Answers are saved after every change, hotel and transport
sections follow the tour length and transport count, and the finished
survey is posted to the collector endpoint.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.DefaultPath, "configuration file")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&a.storage, "storage", "", "storage driver override (file, sqlite, redis, memory)")
	flags.StringVar(&a.statePath, "state", "", "state directory or database path override")
	flags.StringVar(&a.endpoint, "endpoint", "", "collector endpoint override")

	root.AddCommand(
		a.fillCommand(),
		a.setCommand(),
		a.toggleCommand(),
		a.addTransportCommand(),
		a.sectionsCommand(),
		a.statusCommand(),
		a.recipientCommand(),
		a.submitCommand(),
		a.clearCommand(),
		a.reportCommand(),
		a.contractCommand(),
		a.serveCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.storage != "" {
		cfg.Storage.Driver = a.storage
	}
	if a.statePath != "" {
		cfg.Storage.Path = a.statePath
	}
	if a.endpoint != "" {
		cfg.Collector.Endpoint = a.endpoint
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Log, a.verbose)
	if err != nil {
		return err
	}
	a.logger = logger

	timeout, err := cfg.CollectorTimeout()
	if err != nil {
		return err
	}

	codes := tourcodes.FromStrings(cfg.Questionnaire.TourCodes)
	if location := strings.TrimSpace(cfg.Questionnaire.TourCodesSource); location != "" {
		loaded, err := tripsurvey.LoadTourCodes(cmd.Context(), location, timeout)
		if err != nil {
			return err
		}
		codes = tripsurvey.MergeTourCodes(codes, loaded)
	}

	opts := tripsurvey.Options{
		Storage:   cfg.Storage,
		Endpoint:  cfg.Collector.Endpoint,
		Encoding:  transport.Encoding(strings.ToLower(strings.TrimSpace(cfg.Collector.Encoding))),
		Timeout:   timeout,
		Headers:   cfg.Collector.Headers,
		Router:    cfg.Router(),
		TourCodes: codes,
		Logger:    logger,
	}
	if dir := strings.TrimSpace(cfg.Questionnaire.OverlayDir); dir != "" {
		opts.Overlays = os.DirFS(dir)
	}

	session, err := tripsurvey.Open(cmd.Context(), opts)
	if err != nil {
		return err
	}
	a.session = session
	return nil
}

func (a *app) teardown() error {
	var err error
	if a.session != nil {
		err = a.session.Close()
		a.session = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return err
}

func (a *app) ready() (*tripsurvey.Session, error) {
	if a.session == nil {
		return nil, errNoSession
	}
	return a.session, nil
}
