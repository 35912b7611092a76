package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-tripsurvey"
	"github.com/goliatone/go-tripsurvey/pkg/completion"
	"github.com/goliatone/go-tripsurvey/pkg/contract"
	"github.com/goliatone/go-tripsurvey/pkg/engine"
	"github.com/goliatone/go-tripsurvey/pkg/httpapi"
	"github.com/goliatone/go-tripsurvey/pkg/model"
	"github.com/goliatone/go-tripsurvey/pkg/payload"
	"github.com/goliatone/go-tripsurvey/pkg/renderers/tui"
	"github.com/goliatone/go-tripsurvey/pkg/report"
)

func (a *app) fillCommand() *cobra.Command {
	var (
		sections []string
		noSubmit bool
	)
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Answer the survey interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.ready()
			if err != nil {
				return err
			}
			runner, err := tui.New(session.Engine,
				tui.WithOutput(cmd.OutOrStdout()),
				tui.WithSections(sections...),
				tui.WithSubmit(!noSubmit),
				tui.WithLogger(a.logger.Named("tui")),
			)
			if err != nil {
				return err
			}
			if err := runner.Run(cmd.Context()); err != nil {
				if errors.Is(err, tui.ErrAborted) {
					fmt.Fprintln(cmd.OutOrStdout(), theme.Warning.Render("Stopped; answers so far are saved."))
					return nil
				}
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&sections, "section", nil, "only visit these section ids (repeatable)")
	cmd.Flags().BoolVar(&noSubmit, "no-submit", false, "skip the submit step at the end")
	return cmd
}

func (a *app) setCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set FIELD [VALUE...]",
		Short: "Store an answer; no value clears it",
		Long: `Store an answer. Multi-choice fields take one argument per selected
option; every other field joins the arguments with spaces. Omitting the
value clears the answer.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.ready()
			if err != nil {
				return err
			}
			eng := session.Engine
			fieldID, values := args[0], args[1:]

			var change engine.Change
			if field, _, ok := eng.Questionnaire().Field(fieldID); ok && field.IsMulti() {
				change, err = eng.SetOptions(cmd.Context(), fieldID, values)
			} else {
				change, err = eng.SetAnswer(cmd.Context(), fieldID, strings.Join(values, " "))
			}
			if err != nil {
				return err
			}
			printChange(cmd.OutOrStdout(), eng, change)
			return nil
		},
	}
}

func (a *app) toggleCommand() *cobra.Command {
	var off bool
	cmd := &cobra.Command{
		Use:   "toggle FIELD OPTION",
		Short: "Select or deselect one option of a multi-choice answer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.ready()
			if err != nil {
				return err
			}
			change, err := session.Engine.ToggleOption(cmd.Context(), args[0], args[1], !off)
			if err != nil {
				return err
			}
			printChange(cmd.OutOrStdout(), session.Engine, change)
			return nil
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "deselect the option")
	return cmd
}

func (a *app) addTransportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-transport",
		Short: "Append another transport section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.ready()
			if err != nil {
				return err
			}
			change, err := session.Engine.AppendTransport(cmd.Context())
			if err != nil {
				return err
			}
			if !change.Changed {
				fmt.Fprintln(cmd.OutOrStdout(), theme.Warning.Render("Transport sections are already at the maximum."))
			}
			printChange(cmd.OutOrStdout(), session.Engine, change)
			return nil
		},
	}
}

func (a *app) sectionsCommand() *cobra.Command {
	var showFields bool
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "List the sections with their completion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.ready()
			if err != nil {
				return err
			}
			eng := session.Engine
			progress := eng.Progress()
			answers := eng.Answers()
			out := cmd.OutOrStdout()

			for _, section := range eng.Questionnaire().Sections {
				status, _ := progress.Section(section.ID)
				counts := theme.Muted.Render(fmt.Sprintf("%d/%d", status.Answered, status.Required))
				fmt.Fprintf(out, "%s %-28s %s %s\n", checkmark(status.Complete), section.ID, eng.DerivedLabel(section.ID), counts)
				if !showFields {
					continue
				}
				for _, field := range section.Fields {
					if field.IsAction() {
						continue
					}
					value, ok := answers.Get(field.ID)
					marker := checkmark(completion.IsAnswered(value, ok))
					if completion.IsOptional(field) {
						marker = theme.Muted.Render("○")
					}
					fmt.Fprintf(out, "    %s %s %s\n", marker, field.ID, theme.Muted.Render(value.String()))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showFields, "fields", false, "list every field under its section")
	return cmd
}

func (a *app) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show progress, recipient and submission id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.ready()
			if err != nil {
				return err
			}
			eng := session.Engine
			out := cmd.OutOrStdout()
			progress := eng.Progress()

			id, err := eng.SubmissionID(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(out, theme.Title.Render("BTY trip survey"))
			fmt.Fprintf(out, "%s  %d of %d required answers\n", progressBar(progress.Percent), progress.Answered, progress.Required)
			fmt.Fprintf(out, "Next action: %s\n", eng.ActionLabel())

			_, address, recipientErr := eng.Recipient()
			if recipientErr != nil {
				fmt.Fprintf(out, "Recipient:   %s\n", theme.Warning.Render(engine.StatusMessage(recipientErr)))
			} else {
				fmt.Fprintf(out, "Recipient:   %s\n", address)
			}

			endpoint := session.Sender.Endpoint()
			if endpoint == "" {
				endpoint = theme.Warning.Render(engine.StatusMissingEndpoint)
			}
			fmt.Fprintf(out, "Collector:   %s\n", endpoint)
			fmt.Fprintf(out, "Storage:     %s\n", a.cfg.Storage.Driver)
			fmt.Fprintf(out, "Submission:  %s\n", theme.Muted.Render(id))
			return nil
		},
	}
}

func (a *app) recipientCommand() *cobra.Command {
	var other string
	cmd := &cobra.Command{
		Use:   "recipient [EMAIL|other]",
		Short: "Choose the Product Manager who receives the report",
		Long: `Choose the routing recipient. Without arguments the configured
recipients are listed. Pass "other" with --address for an address that is
not in the list; it must end in the configured domain.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.ready()
			if err != nil {
				return err
			}
			eng := session.Engine
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				choice, _, _ := eng.Recipient()
				for _, recipient := range eng.Router().Recipients {
					fmt.Fprintf(out, "%s %s\n", checkmark(recipient.Email == choice), recipient.Label())
				}
				fmt.Fprintf(out, "%s %s %s\n", checkmark(choice == payload.OtherRecipient), payload.OtherRecipient,
					theme.Muted.Render("(address ending in "+eng.Router().DomainSuffix+")"))
				return nil
			}

			choice := strings.TrimSpace(args[0])
			if choice != payload.OtherRecipient && !eng.Router().Known(choice) {
				other, choice = choice, payload.OtherRecipient
			}
			if _, err := eng.SelectRecipient(cmd.Context(), choice, other); err != nil {
				return err
			}
			_, address, err := eng.Recipient()
			if err != nil {
				fmt.Fprintln(out, theme.Warning.Render(engine.StatusMessage(err)))
				return nil
			}
			fmt.Fprintf(out, "%s Reports go to %s\n", checkmark(true), address)
			return nil
		},
	}
	cmd.Flags().StringVar(&other, "address", "", "address used with the \"other\" choice")
	return cmd
}

func (a *app) submitCommand() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Send the survey to the collector",
		Long: `Send the answers to the collector. Once every required question is
answered the submission is final and needs a recipient; before that it is
saved as a partial submission.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.ready()
			if err != nil {
				return err
			}
			eng := session.Engine
			out := cmd.OutOrStdout()

			if dryRun {
				id, err := eng.SubmissionID(cmd.Context())
				if err != nil {
					return err
				}
				choice, address, _ := eng.Recipient()
				envelope := payload.NewEnvelope(id, time.Now(), eng.Flatten(), choice, address, eng.Progress().RequiredComplete)
				return writeJSON(out, envelope)
			}

			fmt.Fprintln(out, theme.Muted.Render(engine.StatusSubmitting))
			result, err := eng.Submit(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, theme.Success.Render(result.Status))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the envelope instead of sending it")
	return cmd
}

func (a *app) clearCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored answer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("clear removes every answer; pass --yes to confirm")
			}
			session, err := a.ready()
			if err != nil {
				return err
			}
			if _, err := session.Engine.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), theme.Success.Render("Answers cleared"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm clearing")
	return cmd
}

func (a *app) reportCommand() *cobra.Command {
	var (
		output   string
		template string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the answers as an HTML report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.ready()
			if err != nil {
				return err
			}
			renderer, err := a.reportRenderer(template)
			if err != nil {
				return err
			}
			input, err := session.ReportInput(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			html, err := renderer.Render(input)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, html)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&template, "template", "", "pongo2 template file replacing the built-in report")
	return cmd
}

func (a *app) reportRenderer(template string) (*report.Renderer, error) {
	options := []report.Option{report.WithTitle(a.cfg.Report.Title)}
	if template = strings.TrimSpace(template); template != "" {
		dir, name := splitPath(template)
		options = append(options, report.WithTemplates(os.DirFS(dir), name))
	}
	return report.New(options...)
}

func (a *app) contractCommand() *cobra.Command {
	var (
		output string
		format string
		check  string
	)
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Describe the collector endpoint as OpenAPI, or check an existing description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.ready()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			questionnaire := session.Engine.Questionnaire()

			if check = strings.TrimSpace(check); check != "" {
				return a.checkContract(ctx, cmd.OutOrStdout(), check, session)
			}

			doc, err := contract.Build(ctx, questionnaire, contract.Info{
				Title:    a.cfg.Report.Title,
				Endpoint: session.Sender.Endpoint(),
			})
			if err != nil {
				return err
			}

			var data []byte
			switch strings.ToLower(format) {
			case "yaml", "yml":
				raw, err := doc.MarshalJSON()
				if err != nil {
					return err
				}
				var generic any
				if err := yaml.Unmarshal(raw, &generic); err != nil {
					return err
				}
				data, err = yaml.Marshal(generic)
				if err != nil {
					return err
				}
			default:
				data, err = json.MarshalIndent(doc, "", "  ")
				if err != nil {
					return err
				}
				data = append(data, '\n')
			}
			return writeOutput(cmd.OutOrStdout(), output, data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&format, "format", "json", "json or yaml")
	cmd.Flags().StringVar(&check, "check", "", "contract file or URL to compare with the current questionnaire")
	return cmd
}

func (a *app) checkContract(ctx context.Context, out io.Writer, location string, session *tripsurvey.Session) error {
	timeout, err := a.cfg.CollectorTimeout()
	if err != nil {
		return err
	}
	raw, err := tripsurvey.ReadDocument(ctx, location, timeout)
	if err != nil {
		return err
	}
	doc, err := contract.Load(ctx, raw)
	if err != nil {
		return err
	}
	drift, err := contract.Compare(doc, session.Engine.Questionnaire())
	if err != nil {
		return err
	}
	if drift.Empty() {
		fmt.Fprintln(out, theme.Success.Render("Collector contract matches the questionnaire"))
		return nil
	}
	for _, column := range drift.Missing {
		fmt.Fprintf(out, "%s %s\n", theme.Error.Render("missing"), column)
	}
	for _, column := range drift.Extra {
		fmt.Fprintf(out, "%s %s\n", theme.Warning.Render("extra  "), column)
	}
	return fmt.Errorf("collector contract drift: %d missing, %d extra", len(drift.Missing), len(drift.Extra))
}

func (a *app) serveCommand() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the survey session as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.ready()
			if err != nil {
				return err
			}
			if listen == "" {
				listen = a.cfg.HTTP.Listen
			}
			renderer, err := a.reportRenderer("")
			if err != nil {
				return err
			}
			api, err := httpapi.New(session.Engine,
				httpapi.WithLogger(a.logger.Named("http")),
				httpapi.WithReport(renderer),
				httpapi.WithTourCodes(session.TourCodes),
				httpapi.WithContractInfo(contract.Info{
					Title:    a.cfg.Report.Title,
					Endpoint: session.Sender.Endpoint(),
				}),
			)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), listen, api.Handler(), a.logger)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (defaults to http.listen)")
	return cmd
}

func serve(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	}
}

func printChange(out io.Writer, eng *engine.Engine, change engine.Change) {
	if !change.Changed {
		fmt.Fprintln(out, theme.Muted.Render("No change"))
	}
	if change.Regenerated {
		q := eng.Questionnaire()
		fmt.Fprintf(out, "%s %d hotel and %d transport sections\n",
			theme.Muted.Render("Questionnaire now has"),
			len(q.SectionsInGroup(model.GroupHotel)), len(q.SectionsInGroup(model.GroupTransport)))
	}
	for _, sectionID := range change.RelabeledSections {
		fmt.Fprintf(out, "%s %s\n", theme.Muted.Render(sectionID+" is now"), eng.DerivedLabel(sectionID))
	}
	fmt.Fprintln(out, progressBar(change.Progress.Percent))
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Written to %s\n", path)
	return nil
}

func writeJSON(out io.Writer, value any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func splitPath(path string) (dir, name string) {
	idx := strings.LastIndexAny(path, `/\`)
	if idx < 0 {
		return ".", path
	}
	return path[:idx+1], path[idx+1:]
}
