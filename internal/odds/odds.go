package odds

import (
	"context"
	"fmt"
	"strconv"

	"github.com/GoPolymarket/polymarket-go-sdk/pkg/clob/clobtypes"
)

// BookSource fetches the current order book of an outcome token.
type BookSource interface {
	Book(ctx context.Context, tokenID string) (clobtypes.OrderBook, error)
}

// Quoter turns market prices into payout ratios.
type Quoter struct {
	Books BookSource
}

func NewQuoter(books BookSource) *Quoter {
	return &Quoter{Books: books}
}

// PayoutRatio returns the win/loss ratio of buying tokenID at its best ask.
func (q *Quoter) PayoutRatio(ctx context.Context, tokenID string) (float64, error) {
	book, err := q.Books.Book(ctx, tokenID)
	if err != nil {
		return 0, fmt.Errorf("order book %s: %w", tokenID, err)
	}
	ask, err := BestAsk(book)
	if err != nil {
		return 0, fmt.Errorf("order book %s: %w", tokenID, err)
	}
	return PayoutRatio(ask)
}

// BestAsk returns the lowest ask price in book. Level ordering is not assumed.
func BestAsk(book clobtypes.OrderBook) (float64, error) {
	if len(book.Asks) == 0 {
		return 0, fmt.Errorf("no asks")
	}
	best := 0.0
	for i, lvl := range book.Asks {
		price, err := strconv.ParseFloat(lvl.Price, 64)
		if err != nil {
			return 0, fmt.Errorf("ask price %q: %w", lvl.Price, err)
		}
		if i == 0 || price < best {
			best = price
		}
	}
	return best, nil
}

// PayoutRatio converts a binary outcome price into the amount won per unit
// staked. A share bought at price pays 1 on resolution, so the net win is
// 1-price against a loss of price.
func PayoutRatio(price float64) (float64, error) {
	if !(price > 0 && price < 1) {
		return 0, fmt.Errorf("price %v outside (0,1)", price)
	}
	return (1 - price) / price, nil
}
