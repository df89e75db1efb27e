package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iho/bookkeeper/internal/adapter/journal"
	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/infrastructure/config"
	"github.com/iho/bookkeeper/internal/infrastructure/metrics"
	"github.com/iho/bookkeeper/internal/usecase"
)

var (
	envFile     string
	journalFile string
	asOfFlag    string
	outputJSON  bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "keeper",
		Short:         "Double-entry bookkeeping from journal files",
		Long:          `Replays YAML journals into an in-memory double-entry ledger and reports balances.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file read before the environment")
	rootCmd.PersistentFlags().StringVarP(&journalFile, "file", "f", "", "journal file (YAML)")
	rootCmd.PersistentFlags().StringVar(&asOfFlag, "as-of", "", "report date, YYYY-MM-DD (default today)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "print JSON instead of a table")
	_ = rootCmd.MarkPersistentFlagRequired("file")

	rootCmd.AddCommand(newReplayCmd(), newBalanceCmd(), newCheckCmd(), newWatchCmd())

	return rootCmd
}

func newReplayCmd() *cobra.Command {
	var dumpMetrics bool

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a journal and print every balance and the trial balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return replay(cmd, dumpMetrics)
		},
	}

	cmd.Flags().BoolVar(&dumpMetrics, "metrics", false, "print collected metrics in Prometheus text format")

	return cmd
}

// replay loads the journal and prints the outcomes and the trial balance.
func replay(cmd *cobra.Command, dumpMetrics bool) error {
	a, res, asOf, err := load(cmd)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	tb, err := a.ledger.TrialBalance(ctx, asOf)
	if err != nil {
		return err
	}
	if outputJSON {
		printJSON(out, replayView(res, tb))
	} else {
		printOutcomes(out, res)
		printTrialBalance(out, tb)
	}

	if dumpMetrics && a.cfg.MetricsEnabled {
		if err := metrics.Dump(out, a.registry); err != nil {
			return err
		}
	}

	_, err = a.ledger.CheckConsistency(ctx, asOf)
	return err
}

func newBalanceCmd() *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print one account's balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, asOf, err := load(cmd)
			if err != nil {
				return err
			}

			balance, err := a.accounts.GetBalance(commandContext(cmd), accountID, &asOf)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				printJSON(out, balanceView{
					AccountID: accountID,
					AsOf:      asOf.String(),
					Currency:  balance.Amount.Currency(),
					Amount:    balance.Amount.Amount().StringFixed(balance.Amount.Scale()),
					Side:      balance.Side.String(),
				})
				return nil
			}

			fmt.Fprintf(out, "%s as of %s: %s\n", accountID, asOf, balance)
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "account ID")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that debits equal credits in every currency",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, asOf, err := load(cmd)
			if err != nil {
				return err
			}

			if _, err := a.ledger.CheckConsistency(commandContext(cmd), asOf); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Consistency check FAILED\n")
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Consistency check PASSED as of %s\n", asOf)
			return nil
		},
	}
}

// load reads configuration and the journal, and replays it into a fresh ledger.
func load(cmd *cobra.Command) (*app, *journal.Result, domain.TimePoint, error) {
	asOf := domain.Today()
	if asOfFlag != "" {
		var err error
		if asOf, err = domain.ParseTimePoint(asOfFlag); err != nil {
			return nil, nil, asOf, fmt.Errorf("--as-of: %w", err)
		}
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, asOf, fmt.Errorf("failed to load configuration: %w", err)
	}

	a, err := newApp(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, asOf, err
	}

	doc, err := journal.LoadFile(journalFile)
	if err != nil {
		return nil, nil, asOf, err
	}

	res, err := a.replayer.Replay(commandContext(cmd), doc)
	if err != nil {
		return nil, nil, asOf, err
	}

	return a, res, asOf, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printOutcomes(w io.Writer, res *journal.Result) {
	for _, o := range res.Outcomes {
		if o.Posted() {
			continue
		}
		var unable *domain.UnableToPostError
		if errors.As(o.Err, &unable) {
			fmt.Fprintf(w, "transaction #%d %s NOT POSTED: out by %s, %s dominant\n",
				o.Index, o.TransactionID, unable.Imbalance.Abs(), unable.Dominant)
			continue
		}
		fmt.Fprintf(w, "transaction #%d %s NOT POSTED: %v\n", o.Index, o.TransactionID, o.Err)
	}
	fmt.Fprintf(w, "%d posted, %d rejected\n\n", res.Posted(), res.Rejected())
}

func printTrialBalance(w io.Writer, tb *usecase.TrialBalance) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "ACCOUNT\tNAME\tDEBITS\tCREDITS\tBALANCE\t\n")
	for _, l := range tb.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			l.AccountID, truncate(l.Name, 24), l.Debits, l.Credits, l.Balance)
	}
	for _, t := range tb.Totals {
		status := "balanced"
		if !t.Balanced() {
			status = "OUT OF BALANCE"
		}
		fmt.Fprintf(tw, "TOTAL %s\t\t%s\t%s\t%s\t\n", t.Currency, t.Debits, t.Credits, status)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "as of %s\n", tb.AsOf)
}

type balanceView struct {
	AccountID string `json:"account_id"`
	AsOf      string `json:"as_of"`
	Currency  string `json:"currency"`
	Amount    string `json:"amount"`
	Side      string `json:"side"`
}

type totalsView struct {
	Currency string `json:"currency"`
	Debits   string `json:"debits"`
	Credits  string `json:"credits"`
	Balanced bool   `json:"balanced"`
}

type rejectionView struct {
	Index         int    `json:"index"`
	TransactionID string `json:"transaction_id"`
	Kind          string `json:"kind"`
	Error         string `json:"error"`
}

type replayJSON struct {
	AsOf     string          `json:"as_of"`
	Posted   int             `json:"posted"`
	Rejected []rejectionView `json:"rejected"`
	Accounts []balanceView   `json:"accounts"`
	Totals   []totalsView    `json:"totals"`
	Balanced bool            `json:"balanced"`
}

func replayView(res *journal.Result, tb *usecase.TrialBalance) replayJSON {
	v := replayJSON{
		AsOf:     tb.AsOf.String(),
		Posted:   res.Posted(),
		Rejected: []rejectionView{},
		Balanced: tb.Balanced(),
	}
	for _, o := range res.Outcomes {
		if o.Posted() {
			continue
		}
		v.Rejected = append(v.Rejected, rejectionView{
			Index:         o.Index,
			TransactionID: o.TransactionID,
			Kind:          domain.ErrorKind(o.Err),
			Error:         o.Err.Error(),
		})
	}
	for _, l := range tb.Lines {
		v.Accounts = append(v.Accounts, balanceView{
			AccountID: l.AccountID,
			AsOf:      v.AsOf,
			Currency:  l.Balance.Amount.Currency(),
			Amount:    l.Balance.Amount.Amount().StringFixed(l.Balance.Amount.Scale()),
			Side:      l.Balance.Side.String(),
		})
	}
	for _, t := range tb.Totals {
		v.Totals = append(v.Totals, totalsView{
			Currency: t.Currency,
			Debits:   t.Debits.Amount().StringFixed(t.Debits.Scale()),
			Credits:  t.Credits.Amount().StringFixed(t.Credits.Scale()),
			Balanced: t.Balanced(),
		})
	}
	return v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
