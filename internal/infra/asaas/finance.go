package asaas

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sistemclass/marketplace-gateway-go/internal/domain"
)

// statementPageSize caps how many movements a single statement call
// fetches.
const statementPageSize = 100

// GetBalance fetches the subaccount's current balance.
func (c *Client) GetBalance(ctx context.Context, cred domain.Credential) (*domain.Envelope, error) {
	return c.doJSON(ctx, http.MethodGet, "/finance/balance", nil, nil, cred)
}

// ListFinancialTransactions fetches the financial statement (inflows and
// outflows) for the given period.
func (c *Client) ListFinancialTransactions(ctx context.Context, cred domain.Credential, start, end time.Time) (*domain.Envelope, error) {
	query := url.Values{
		"startDate": {start.Format("2006-01-02")},
		"endDate":   {end.Format("2006-01-02")},
		"limit":     {strconv.Itoa(statementPageSize)},
	}
	return c.doJSON(ctx, http.MethodGet, "/financialTransactions", query, nil, cred)
}
