package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"iqscalar-assessment-service/internal/bank"
	"iqscalar-assessment-service/internal/config"
)

type questionBankRow struct {
	Name string          `bun:"name,pk"`
	Data string `bun:"data,type:jsonb"`
}

// NewSeedCmd stores a bank document in Postgres for the postgres:<name> source.
func NewSeedCmd(configPath *string) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "seed <file>",
		Short: "Upsert a JSON question bank document into question_banks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			questions, dropped, err := bank.Normalize(data, name+"_")
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if len(questions) == 0 {
				return fmt.Errorf("%s: no valid questions", args[0])
			}

			ctx := cmd.Context()
			db := openBunDB(cfg.Postgres.URL)
			defer db.Close()

			row := &questionBankRow{Name: name, Data: string(data)}
			_, err = db.NewInsert().
				Model(row).
				ModelTableExpr("question_banks").
				On("CONFLICT (name) DO UPDATE").
				Set("data = EXCLUDED.data").
				Set("updated_at = now()").
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("seed %s: %w", name, err)
			}
			newLogger().Info("bank seeded", "name", name, "questions", len(questions), "dropped", dropped)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "test", "bank name referenced as postgres:<name>")
	return cmd
}
