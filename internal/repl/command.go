package repl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates parsed commands.
type Kind int

const (
	// Ignore is any input the session drops without output.
	Ignore Kind = iota
	// Query asks for the optimal stake under bound Value.
	Query
	// Set assigns Value to the parameter Name ("p" or "k").
	Set
	// Market sets k from the order book of TokenID.
	Market
)

// Command is the result of parsing one input line.
type Command struct {
	Kind    Kind
	Name    string
	Value   float64
	TokenID string
}

// Parse turns a line into a Command. Malformed input yields Kind Ignore.
func Parse(line string) Command {
	fields := strings.Fields(line)
	switch len(fields) {
	case 1:
		b, err := ParseReal(fields[0])
		if err != nil {
			return Command{Kind: Ignore}
		}
		return Command{Kind: Query, Value: b}
	case 2:
		if fields[0] == "market" {
			return Command{Kind: Market, TokenID: fields[1]}
		}
		v, err := ParseReal(fields[1])
		if err != nil {
			return Command{Kind: Ignore}
		}
		switch fields[0] {
		case "p", "k":
			return Command{Kind: Set, Name: fields[0], Value: v}
		}
	}
	return Command{Kind: Ignore}
}

// ParseReal parses a decimal real number. Overflow yields ±Inf rather than
// an error. Hexadecimal forms and digit separators are rejected.
func ParseReal(s string) (float64, error) {
	digits := strings.TrimLeft(s, "+-")
	if strings.ContainsRune(s, '_') || strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return v, nil
}
