package cli

import (
	"github.com/spf13/cobra"

	"gareport/internal/reports"
)

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run pre-built monthly reports",
	}
	cmd.AddCommand(newReportListCmd())
	for _, tmpl := range reports.Templates() {
		cmd.AddCommand(newReportRunCmd(a, tmpl))
	}
	return cmd
}

func newReportListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			templates := reports.Templates()
			if getOutputFormat(cmd) == outputJSON {
				out := make([]map[string]string, len(templates))
				for i, t := range templates {
					out[i] = map[string]string{"name": t.Name, "description": t.Description}
				}
				return PrintJSON(cmd.OutOrStdout(), out)
			}
			rows := make([][]string, len(templates))
			for i, t := range templates {
				rows[i] = []string{t.Name, t.Description}
			}
			PrintTable(cmd.OutOrStdout(), []string{"name", "description"}, rows)
			return nil
		},
	}
}

func newReportRunCmd(a *app, tmpl reports.Template) *cobra.Command {
	var (
		pf       payloadFlags
		dest     string
		appendTo bool
	)

	cmd := &cobra.Command{
		Use:   tmpl.Name,
		Short: tmpl.Description,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			viewID, err := a.requireViewID()
			if err != nil {
				return err
			}
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			table, err := tmpl.Run(ctx, svc, reports.Params{
				ViewID:    viewID,
				StartDate: pf.startDate,
				EndDate:   pf.endDate,
				Segment:   pf.segment,
				Filters:   pf.filters,
			})
			if err != nil {
				return err
			}

			if dest != "" {
				return a.writeTable(cmd, table, dest, appendTo, "report", tmpl.Name)
			}
			return printStructuredTable(ctx, cmd.OutOrStdout(), getOutputFormat(cmd), table)
		},
	}

	cmd.Flags().AddFlagSet(pf.dateFlagSet())
	cmd.Flags().StringVar(&dest, "dest", "", "Write the report to a file, database or bucket instead of stdout")
	cmd.Flags().BoolVar(&appendTo, "append", false, "Append to an existing database table")
	return cmd
}
