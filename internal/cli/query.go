package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"searchbar/internal/domain"
	"searchbar/internal/search"
	"searchbar/internal/widget"
)

var queryCmd = &cobra.Command{
	Use:   "query [text...]",
	Short: "Run one search and print the results",
	Long: `Run one search and print one result per line. The arguments are joined
with single spaces; without arguments the query is read from stdin, as-is.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		closeLog := setupLogging(cfg.LogFile)
		defer closeLog()

		query := strings.Join(args, " ")
		if len(args) == 0 {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading query: %w", err)
			}
			query = string(raw)
		}

		client, err := search.NewClient(cfg.Endpoint, nil, cfg.Timeout())
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()
		return runQuery(ctx, query, client, cmd.OutOrStdout())
	},
}

// fixedInput is a search bar whose value never changes
type fixedInput string

func (f fixedInput) Value() string { return string(f) }

// lineWriter prints each result on its own line
type lineWriter struct{ w io.Writer }

func (l lineWriter) Replace(items domain.ResultList) {
	for _, item := range items {
		fmt.Fprintln(l.w, item)
	}
}

func runQuery(ctx context.Context, query string, searcher search.Searcher, out io.Writer) error {
	w := widget.New(widget.Bindings{
		SearchBar:  fixedInput(query),
		SearchList: lineWriter{out},
	}, searcher, widget.TriggerEveryKey, nil)

	resp := w.Click()(ctx)
	if !w.Apply(resp) {
		return fmt.Errorf("search failed: %w", resp.Err)
	}
	return nil
}
