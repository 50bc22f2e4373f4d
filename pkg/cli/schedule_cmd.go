package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"gareport/internal/domain"
	"gareport/internal/export"
	"gareport/internal/schedule"
)

func newScheduleCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run report jobs on cron schedules",
	}
	cmd.PersistentFlags().StringVarP(&file, "file", "f", "jobs.yaml", "Job file")

	cmd.AddCommand(newScheduleListCmd(a, &file))
	cmd.AddCommand(newScheduleRunCmd(a, &file))
	cmd.AddCommand(newScheduleRunOnceCmd(a, &file))
	return cmd
}

// scheduler loads the job file and builds a scheduler over the app's
// query service.
func (a *app) scheduler(ctx context.Context, file string) (*schedule.Scheduler, error) {
	jobs, err := schedule.LoadJobs(file, a.cfg.ViewID)
	if err != nil {
		return nil, err
	}
	svc, err := a.service(ctx)
	if err != nil {
		return nil, err
	}
	open := func(ctx context.Context, dest string, appendTo bool) (domain.TableWriter, error) {
		return export.Open(ctx, dest, export.Options{Append: appendTo, Storage: a.cfg.Storage})
	}
	return schedule.NewScheduler(svc, open, jobs, a.logger)
}

func newScheduleListCmd(a *app, file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List jobs in the job file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			jobs, err := schedule.LoadJobs(*file, a.cfg.ViewID)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == outputJSON {
				return PrintJSON(cmd.OutOrStdout(), jobs)
			}
			rows := make([][]string, len(jobs))
			for i, j := range jobs {
				what := j.Report
				if what == "" {
					what = "query"
				}
				rows[i] = []string{j.Name, j.Cron, j.ViewID, what, j.Destination}
			}
			PrintTable(cmd.OutOrStdout(), []string{"name", "cron", "view", "report", "destination"}, rows)
			return nil
		},
	}
}

func newScheduleRunCmd(a *app, file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := a.scheduler(ctx, *file)
			if err != nil {
				return err
			}
			if err := s.Start(ctx); err != nil {
				return err
			}
			for _, e := range s.Entries() {
				a.logger.Info("next run", "job", e.Name, "at", e.Next.Format(time.RFC3339))
			}
			<-ctx.Done()
			s.Stop()
			return nil
		},
	}
}

func newScheduleRunOnceCmd(a *app, file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run-once <job>",
		Short: "Run one job immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.scheduler(cmd.Context(), *file)
			if err != nil {
				return err
			}
			return s.RunOnce(cmd.Context(), args[0])
		},
	}
}
