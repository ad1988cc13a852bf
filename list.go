package main

import (
	"fmt"

	"content-archives/archives"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var (
		monthly bool
		order   string
		label   string
		column  string
		locale  string
	)

	cmd := &cobra.Command{
		Use:   "list <contenttype>",
		Short: "Print the archive periods of a content type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			l, err := archives.ParseLocale(locale)
			if err != nil {
				return err
			}
			if locale == "" {
				l = a.locale
			}

			req := archives.Request{
				ContentType: args[0],
				Granularity: archives.Year,
				Order:       archives.ParseOrder(order),
				Label:       label,
				Column:      column,
				Locale:      l,
			}
			if monthly {
				req.Granularity = archives.Month
			}

			entries, err := a.svc.Entries(cmd.Context(), req)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.Label, e.URL)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&monthly, "monthly", "m", false, "list months instead of years")
	cmd.Flags().StringVarP(&order, "order", "o", "desc", "sort order, asc or desc")
	cmd.Flags().StringVarP(&label, "label", "l", "", "strftime pattern of the labels")
	cmd.Flags().StringVar(&column, "column", "", "date column to group by")
	cmd.Flags().StringVar(&locale, "locale", "", "locale of month names, e.g. nl_NL")
	return cmd
}
