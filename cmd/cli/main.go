package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/iho/bankbalance/internal/adapter/http/dto"
	"github.com/iho/bankbalance/internal/currency"
	"github.com/iho/bankbalance/internal/infrastructure/logger"
	"github.com/iho/bankbalance/internal/infrastructure/poller"
)

type globalOptions struct {
	baseURL  string
	timeout  time.Duration
	retries  uint64
	logLevel string
}

func (o *globalOptions) client() *apiClient {
	return newAPIClient(o.baseURL, o.timeout, o.retries)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:          "bankbalance-cli",
		Short:        "Bank balance CLI tool",
		Long:         `A command line interface for registering and watching bank balances through the API.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().Uint64Var(&opts.retries, "retries", 3, "Retries for failed requests")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level for watch output")

	rootCmd.AddCommand(
		seedCmd(opts),
		latestCmd(opts),
		watchCmd(opts),
		sessionCmd(opts),
		submitCmd(opts),
		optionsCmd(opts),
		formatCmd(),
		parseCmd(),
	)

	return rootCmd
}

func seedCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the reference dataset, refreshing names of existing rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := opts.client().Seed(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d records at %s\n",
				resp.RecordsProcessed, resp.Timestamp.Local().Format(poller.UpdateTimeLayout))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw response")
	return cmd
}

func latestCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Show the most recent balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := opts.client().LatestBalance(cmd.Context())
			if err != nil {
				return err
			}
			resp := dto.BalanceFromDomain(record)
			if asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeBalance(resp))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw response")
	return cmd
}

func watchCmd(opts *globalOptions) *cobra.Command {
	var (
		interval time.Duration
		once     bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll for the latest balance and report updates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			watcher := newWatcher(cmd, opts, interval)
			if once {
				watcher.Poll(cmd.Context())
				return nil
			}
			return ignoreCancel(watcher.Start(cmd.Context()))
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", poller.DefaultInterval, "Time between polls")
	cmd.Flags().BoolVar(&once, "once", false, "Poll a single time and exit")
	return cmd
}

func sessionCmd(opts *globalOptions) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Watch for updates while submitting balances read from stdin",
		Long: `Watch for updates while submitting balances read from stdin, one per line:

  <company> <reseller> <bank_code> <branch> <account> <balance>

Your own submissions are reported as echoes, not as updates from another user.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := opts.client()
			watcher := newWatcher(cmd, opts, interval)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return ignoreCancel(watcher.Start(ctx))
			})
			g.Go(func() error {
				defer cancel()
				return runSession(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), client, watcher)
			})

			return g.Wait()
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", poller.DefaultInterval, "Time between polls")
	return cmd
}

// runSession submits one balance per input line until the input ends.
// Malformed lines and rejected submissions are reported and skipped.
func runSession(ctx context.Context, in io.Reader, out io.Writer, client *apiClient, watcher *poller.Watcher) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 6 {
			fmt.Fprintf(out, "skipping %q: expected 6 fields, got %d\n", line, len(fields))
			continue
		}

		resp, err := submitBalance(ctx, client, submission{
			Company:  fields[0],
			Reseller: fields[1],
			BankCode: fields[2],
			Branch:   fields[3],
			Account:  fields[4],
			Balance:  fields[5],
		})
		if err != nil {
			fmt.Fprintf(out, "submit failed: %v\n", err)
			continue
		}

		watcher.MarkSubmitted()
		fmt.Fprintf(out, "submitted %s\n", describeBalance(resp))
	}

	return scanner.Err()
}

func newWatcher(cmd *cobra.Command, opts *globalOptions, interval time.Duration) *poller.Watcher {
	log := logger.New(logger.Config{
		Level:  opts.logLevel,
		Format: "console",
		Output: cmd.OutOrStdout(),
	})

	return poller.NewWatcher(poller.Config{
		Fetcher:  opts.client(),
		Notifier: poller.NewLogNotifier(log),
		Interval: interval,
		Logger:   &log,
	})
}

// submission is a balance typed by a user, before the selection cascade fills in the bank name.
type submission struct {
	RootKey        string
	Company        string
	Reseller       string
	BankCode       string
	Branch         string
	Account        string
	Balance        string
	IdempotencyKey string
}

// submitBalance walks the selection cascade on the server, then posts the completed form.
func submitBalance(ctx context.Context, client *apiClient, s submission) (*dto.BalanceResponse, error) {
	picked, err := client.Select(ctx, dto.SelectionRequest{
		State: dto.SelectionStateDTO{Company: s.Company, Reseller: s.Reseller},
		Field: "bank_code",
		Value: s.BankCode,
	})
	if err != nil {
		return nil, err
	}

	state := picked.State
	state.Branch = s.Branch
	state.Account = s.Account

	filled, err := client.Select(ctx, dto.SelectionRequest{State: state, Field: "balance", Value: s.Balance})
	if err != nil {
		return nil, err
	}
	if !filled.Complete {
		return nil, fmt.Errorf("incomplete submission: %s", filled.Missing)
	}

	form := filled.State
	key := s.IdempotencyKey
	if key == "" {
		key = "cli-" + strconv.FormatInt(time.Now().UnixNano(), 10)
	}

	return client.CreateBalance(ctx, dto.CreateBalanceRequest{
		RootKey:  s.RootKey,
		Company:  form.Company,
		Reseller: form.Reseller,
		BankCode: form.BankCode,
		BankName: form.BankName,
		Branch:   form.Branch,
		Account:  form.Account,
		Balance:  dto.NewBalanceValue(currency.Parse(form.BalanceText)),
	}, key)
}

func submitCmd(opts *globalOptions) *cobra.Command {
	var s submission

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Register a balance",
		Example: `  bankbalance-cli submit --company 1 --reseller 1 --bank-code 001 --branch 3251 --account 12563 --balance 150000
  bankbalance-cli submit --company 1 --reseller 1 --bank-code 001 --branch 3251 --account 12563 --balance=-2500`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := submitBalance(cmd.Context(), opts.client(), s)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeBalance(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&s.Company, "company", "", "Company")
	cmd.Flags().StringVar(&s.Reseller, "reseller", "", "Reseller")
	cmd.Flags().StringVar(&s.BankCode, "bank-code", "", "Bank code")
	cmd.Flags().StringVar(&s.Branch, "branch", "", "Branch")
	cmd.Flags().StringVar(&s.Account, "account", "", "Account")
	cmd.Flags().StringVar(&s.Balance, "balance", "", "Balance as typed; digits are cents, a '-' makes it negative")
	cmd.Flags().StringVar(&s.RootKey, "root-key", "", "Root key (generated by the server when empty)")
	cmd.Flags().StringVar(&s.IdempotencyKey, "idempotency-key", "", "Idempotency key (generated when empty)")
	for _, name := range []string{"company", "reseller", "bank-code", "branch", "account", "balance"} {
		cmd.MarkFlagRequired(name)
	}

	return cmd
}

func optionsCmd(opts *globalOptions) *cobra.Command {
	var state dto.SelectionStateDTO

	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the choices available for a partial selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := opts.client().Select(cmd.Context(), dto.SelectionRequest{State: state})
			if err != nil {
				return err
			}
			printOptions(cmd.OutOrStdout(), resp.Options)
			return nil
		},
	}

	cmd.Flags().StringVar(&state.Company, "company", "", "Company")
	cmd.Flags().StringVar(&state.Reseller, "reseller", "", "Reseller")
	cmd.Flags().StringVar(&state.BankCode, "bank-code", "", "Bank code")
	cmd.Flags().StringVar(&state.Branch, "branch", "", "Branch")
	return cmd
}

func formatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format <keystrokes>",
		Short: "Format typed balance keystrokes as display text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), currency.Format(args[0]))
			return nil
		},
	}
}

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <display>",
		Short: "Parse display text into a value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), currency.Parse(args[0]).StringFixed(2))
			return nil
		},
	}
}

func printOptions(w io.Writer, o dto.SelectionOptionsResponse) {
	section := func(title string, labels []string) {
		if len(labels) == 0 {
			return
		}
		fmt.Fprintf(w, "%s:\n", title)
		for _, l := range labels {
			fmt.Fprintf(w, "  %s\n", l)
		}
	}

	section("companies", optionLabels(o.Companies))
	section("resellers", optionLabels(o.Resellers))

	banks := make([]string, len(o.Banks))
	for i, b := range o.Banks {
		banks[i] = b.Label
	}
	section("banks", banks)
	section("branches", optionLabels(o.Branches))
	section("accounts", optionLabels(o.Accounts))
}

func optionLabels(options []dto.OptionResponse) []string {
	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o.Value + "\t" + o.Label
	}
	return labels
}

func describeBalance(b *dto.BalanceResponse) string {
	return fmt.Sprintf("#%d %s company %s reseller %s bank %s - %s branch %s account %s: %s (%s)",
		b.ID, b.RootKey, b.Company, b.Reseller, b.BankCode, b.BankName, b.Branch, b.Account,
		b.BalanceDisplay, b.CreatedAt.Local().Format(poller.UpdateTimeLayout))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
