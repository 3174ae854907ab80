package repl

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/GoPolymarket/polymarket-stake/internal/stake"
)

// DefaultPrompt is a red "> ".
const DefaultPrompt = "\x1b[31m>\x1b[0m "

// State holds the parameters the session queries with.
type State struct {
	P float64
	K float64
}

// Quoter derives a payout ratio from a market.
type Quoter interface {
	PayoutRatio(ctx context.Context, tokenID string) (float64, error)
}

// Session is the interactive command loop.
type Session struct {
	State  *State
	In     LineReader
	Out    io.Writer
	Prompt string

	// Quoter is optional; market commands are ignored without one.
	Quoter       Quoter
	QuoteTimeout time.Duration

	// Debug logs the search outcome of every query.
	Debug bool
}

// Banner prints the starting parameters.
func (s *Session) Banner() {
	fmt.Fprintf(s.Out, "(probability of success) p = %s\n", FormatFloat(s.State.P))
	fmt.Fprintf(s.Out, "(win/loss ratio)         k = %s\n", FormatFloat(s.State.K))
	fmt.Fprintln(s.Out)
}

// Run reads and executes commands until the line source fails or ctx is done.
// End of input is returned as an error.
func (s *Session) Run(ctx context.Context) error {
	prompt := s.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := s.In.ReadLine(prompt)
		if err != nil {
			return fmt.Errorf("read line: %w", err)
		}
		s.Execute(ctx, Parse(line))
	}
}

// Execute applies a single command to the session state.
func (s *Session) Execute(ctx context.Context, cmd Command) {
	switch cmd.Kind {
	case Query:
		res := stake.Trace(0, cmd.Value, cmd.Value, s.State.K, s.State.P)
		if s.Debug {
			log.Printf("search p=%v k=%v b=%v outcome=%s steps=%d", s.State.P, s.State.K, cmd.Value, res.Outcome, res.Steps)
		}
		fmt.Fprintf(s.Out, "p = %s\n", FormatFloat(s.State.P))
		fmt.Fprintf(s.Out, "k = %s\n", FormatFloat(s.State.K))
		fmt.Fprintf(s.Out, "b = %s\n", FormatFloat(cmd.Value))
		fmt.Fprintf(s.Out, "x = %s\n", FormatFloat(res.Stake))
		fmt.Fprintln(s.Out)
	case Set:
		switch cmd.Name {
		case "p":
			s.State.P = cmd.Value
		case "k":
			s.State.K = cmd.Value
		default:
			return
		}
		s.printParams()
	case Market:
		if s.Quoter == nil {
			return
		}
		k, err := s.quote(ctx, cmd.TokenID)
		if err != nil {
			log.Printf("market %s: %v", cmd.TokenID, err)
			return
		}
		s.State.K = k
		s.printParams()
	}
}

func (s *Session) quote(ctx context.Context, tokenID string) (float64, error) {
	if s.QuoteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.QuoteTimeout)
		defer cancel()
	}
	return s.Quoter.PayoutRatio(ctx, tokenID)
}

func (s *Session) printParams() {
	fmt.Fprintf(s.Out, "p = %s\n", FormatFloat(s.State.P))
	fmt.Fprintf(s.Out, "k = %s\n", FormatFloat(s.State.K))
	fmt.Fprintln(s.Out)
}

// FormatFloat renders v as the shortest decimal that round-trips, without an
// exponent. Infinities print as inf and -inf.
func FormatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
