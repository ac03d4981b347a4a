package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"iqscalar-assessment-service/internal/app"
	"iqscalar-assessment-service/internal/config"
	"iqscalar-assessment-service/internal/domain"
)

// NewDailyCmd prints the daily question for a date.
func NewDailyCmd(configPath *string) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Print the daily question for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if date == "" {
				date = time.Now().UTC().Format(domain.DateLayout)
			}
			ctx := cmd.Context()
			deps, err := buildDeps(ctx, cfg, newLogger())
			if err != nil {
				return err
			}
			defer deps.Close()

			b, err := deps.banks.GetBank(ctx, domain.BankTest)
			if err != nil {
				return err
			}
			q, err := app.SelectDaily(b.Questions, cfg.Daily.Salt, date)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s  [%s]\n", q.DailyQuizID, q.ID, q.Category)
			fmt.Fprintln(out, q.Prompt)
			for i, opt := range q.Options {
				fmt.Fprintf(out, "  %c) %s\n", 'A'+i, opt)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today, UTC)")
	return cmd
}
