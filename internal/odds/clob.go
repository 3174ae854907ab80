package odds

import (
	"context"
	"net/http"

	polymarket "github.com/GoPolymarket/polymarket-go-sdk"
	"github.com/GoPolymarket/polymarket-go-sdk/pkg/clob"
	"github.com/GoPolymarket/polymarket-go-sdk/pkg/clob/clobtypes"
	"github.com/GoPolymarket/polymarket-go-sdk/pkg/transport"
)

type clobSource struct {
	client clob.Client
}

// NewCLOBSource reads books from the Polymarket CLOB REST API.
func NewCLOBSource(client clob.Client) BookSource {
	return clobSource{client: client}
}

// NewCLOBClient builds a REST-only CLOB client from the SDK defaults.
// Unlike polymarket.NewClient it opens no websocket connections.
func NewCLOBClient() clob.Client {
	cfg := polymarket.DefaultConfig()
	rest := transport.NewClient(&http.Client{Timeout: cfg.Timeout}, cfg.BaseURLs.CLOB)
	rest.SetUserAgent(cfg.UserAgent)
	return clob.NewClient(rest)
}

func (s clobSource) Book(ctx context.Context, tokenID string) (clobtypes.OrderBook, error) {
	book, err := s.client.OrderBook(ctx, &clobtypes.BookRequest{TokenID: tokenID})
	if err != nil {
		return clobtypes.OrderBook{}, err
	}
	return clobtypes.OrderBook(book), nil
}
