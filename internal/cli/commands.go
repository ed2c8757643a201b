package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/residencygrid/internal/app"
	"github.com/specialistvlad/residencygrid/internal/asset"
	"github.com/specialistvlad/residencygrid/internal/config"
	"github.com/specialistvlad/residencygrid/internal/executor"
	"github.com/spf13/cobra"
)

// DefaultJob runs when neither a job nor a selection is given.
const DefaultJob = "daily_etl_pipeline"

func newRunCommand(opts *options) *cobra.Command {
	var (
		groups []string
		assets []string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "run [job]",
		Short: "Run a job, or a selection of groups and assets",
		Long: `Run materializes a configured job. With --group or --asset it runs that
selection instead, together with everything upstream of it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adhoc := len(groups) > 0 || len(assets) > 0
			if adhoc && len(args) > 0 {
				return usageError(errors.New("a job name cannot be combined with --group or --asset"))
			}

			a, err := openApp(cmd, opts, 0)
			if err != nil {
				return err
			}
			defer a.Close()

			var report *executor.Report
			switch {
			case adhoc:
				report, err = a.Run(cmd.Context(), "adhoc", asset.Selection{Groups: groups, Names: assets})
			case len(args) == 1:
				report, err = a.RunJob(cmd.Context(), args[0])
			default:
				report, err = a.RunJob(cmd.Context(), DefaultJob)
			}
			if err != nil {
				var unknown *asset.UnknownSelectionError
				if errors.Is(err, app.ErrUnknownJob) || errors.As(err, &unknown) {
					return usageError(err)
				}
				return &ExitError{Code: ExitFailure, Message: err.Error()}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				printReport(cmd, report)
			}
			if !report.OK() {
				s := report.Summary()
				return &ExitError{Code: ExitFailure, Message: fmt.Sprintf("run %s: %d failed, %d skipped", report.RunID, s.Failed, s.Skipped)}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&groups, "group", "g", nil, "Asset group to run; repeatable.")
	cmd.Flags().StringSliceVarP(&assets, "asset", "a", nil, "Asset to run; repeatable.")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the run report as JSON.")
	return cmd
}

func newAssetsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "assets",
		Short: "List assets in execution order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, opts, 0)
			if err != nil {
				return err
			}
			defer a.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ASSET\tGROUP\tDEPENDS ON\tCHECKS")
			for _, as := range a.Assets() {
				deps := strings.Join(as.Deps, ",")
				if deps == "" {
					deps = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", as.Name, as.Group, deps, len(as.Checks))
			}
			return w.Flush()
		},
	}
}

func newJobsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List configured jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, opts, 0)
			if err != nil {
				return err
			}
			defer a.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "JOB\tSELECTS\tSCHEDULE\tDESCRIPTION")
			for _, j := range a.Jobs() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", j.Name, describeSelection(j), describeSchedule(j.Schedule), j.Description)
			}
			return w.Flush()
		},
	}
}

func newServeCommand(opts *options) *cobra.Command {
	var healthcheckPort int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run scheduled jobs until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, opts, healthcheckPort)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.Serve(cmd.Context()); err != nil {
				return &ExitError{Code: ExitFailure, Message: err.Error()}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&healthcheckPort, "healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	return cmd
}

func describeSelection(j *config.Job) string {
	if j.All {
		return "all"
	}
	var parts []string
	for _, g := range j.Groups {
		parts = append(parts, "group:"+g)
	}
	parts = append(parts, j.Assets...)
	return strings.Join(parts, ",")
}

func describeSchedule(s *config.Schedule) string {
	if s == nil {
		return "-"
	}
	return s.Cron
}
