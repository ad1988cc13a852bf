package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixtures.yml>",
		Short: "Load content records from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			n, err := a.repo.LoadFixtures(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.log.Info("Loaded fixtures", zap.String("path", args[0]), zap.Int("records", n))
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d records\n", n)
			return nil
		},
	}
}
