package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/GoPolymarket/polymarket-stake/internal/config"
	"github.com/GoPolymarket/polymarket-stake/internal/odds"
	"github.com/GoPolymarket/polymarket-stake/internal/repl"
	"github.com/GoPolymarket/polymarket-stake/internal/stake"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, newCLOBQuoter).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newCLOBQuoter() repl.Quoter {
	return odds.NewQuoter(odds.NewCLOBSource(odds.NewCLOBClient()))
}

// lazyQuoter defers building the market client until the first lookup.
type lazyQuoter struct {
	once   sync.Once
	build  func() repl.Quoter
	quoter repl.Quoter
}

func (l *lazyQuoter) PayoutRatio(ctx context.Context, tokenID string) (float64, error) {
	l.once.Do(func() { l.quoter = l.build() })
	return l.quoter.PayoutRatio(ctx, tokenID)
}

type options struct {
	p, k       float64
	configPath string
	tokenID    string
}

// newRootCmd wires the command. newQuoter runs at most once, on the first
// market lookup.
func newRootCmd(in io.Reader, out io.Writer, newQuoter func() repl.Quoter) *cobra.Command {
	var opts options
	quoter := &lazyQuoter{build: newQuoter}
	cmd := &cobra.Command{
		Use:   "stake [flags] [b]",
		Short: "Find the growth-optimal stake for a repeated biased wager",
		Long: `Find the stake in [0, b] that maximizes expected growth for success
probability p and win/loss ratio k. With b the stake is printed and the
command exits; without it an interactive session starts.`,
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			state := &repl.State{P: cfg.P, K: cfg.K}
			if cfg.Market.TokenID != "" {
				ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Market.Timeout)
				k, err := quoter.PayoutRatio(ctx, cfg.Market.TokenID)
				cancel()
				if err != nil {
					return fmt.Errorf("market %s: %w", cfg.Market.TokenID, err)
				}
				state.K = k
			}

			if len(args) == 1 {
				b, err := repl.ParseReal(args[0])
				if err != nil {
					return fmt.Errorf("invalid bound %q: %w", args[0], err)
				}
				fmt.Fprintln(out, repl.FormatFloat(stake.Optimal(state.P, state.K, b)))
				return nil
			}
			return interactive(cmd.Context(), cfg, state, in, out, quoter)
		},
	}

	d := config.Default()
	cmd.Flags().Float64VarP(&opts.p, "p", "p", d.P, "probability of success")
	cmd.Flags().Float64VarP(&opts.k, "k", "k", d.K, "win/loss ratio")
	cmd.Flags().StringVar(&opts.configPath, "config", "stake.yaml", "path to config file")
	cmd.Flags().StringVar(&opts.tokenID, "token", "", "Polymarket outcome token whose best ask sets k")
	cmd.Flags().BoolP("version", "V", false, "print version")
	cmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	cmd.SetIn(in)
	cmd.SetOut(out)
	return cmd
}

// loadConfig layers defaults, the config file, the environment and flags.
func loadConfig(cmd *cobra.Command, opts options) (config.Config, error) {
	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("config") {
			log.Printf("warning: config file: %v, using defaults", err)
		}
		cfg = config.Default()
	}
	cfg.ApplyEnv()
	if cmd.Flags().Changed("p") {
		cfg.P = opts.p
	}
	if cmd.Flags().Changed("k") {
		cfg.K = opts.k
	}
	if v := strings.TrimSpace(opts.tokenID); v != "" {
		cfg.Market.TokenID = v
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	if strings.EqualFold(cfg.LogLevel, "quiet") {
		log.SetOutput(io.Discard)
	}
	return cfg, nil
}

func interactive(ctx context.Context, cfg config.Config, state *repl.State, in io.Reader, out io.Writer, quoter repl.Quoter) error {
	var reader repl.LineReader
	if f, ok := in.(*os.File); ok && repl.IsTerminal(f) {
		tr, err := repl.NewTerminalReader(f, out)
		if err != nil {
			return err
		}
		defer tr.Close()
		prev := log.Writer()
		log.SetOutput(repl.RawWriter(prev))
		defer log.SetOutput(prev)
		reader, out = tr, tr
	} else {
		reader = repl.NewStreamReader(in, nil)
	}

	s := &repl.Session{
		State:        state,
		In:           reader,
		Out:          out,
		Prompt:       cfg.Prompt,
		Quoter:       quoter,
		QuoteTimeout: cfg.Market.Timeout,
		Debug:        strings.EqualFold(cfg.LogLevel, "debug"),
	}
	s.Banner()
	return s.Run(ctx)
}
