// Package yahoo reads the Yahoo Finance quote summary endpoint, used both as
// a symbol existence probe and as a fundamentals source. The endpoint needs a
// session cookie plus a matching crumb, fetched once per client.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	"market-pulse/internal/api"
	"market-pulse/internal/types"
)

const Name = "yahoo"

const modules = "price,summaryDetail,defaultKeyStatistics,assetProfile,financialData"

// Value is Yahoo's {"raw": 1.5, "fmt": "1.50"} number wrapper. Empty
// objects leave Raw nil.
type Value struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

type Price struct {
	Symbol             string `json:"symbol"`
	LongName           string `json:"longName"`
	ShortName          string `json:"shortName"`
	Currency           string `json:"currency"`
	RegularMarketPrice Value  `json:"regularMarketPrice"`
	MarketCap          Value  `json:"marketCap"`
}

type SummaryDetail struct {
	TrailingPE       Value `json:"trailingPE"`
	DividendYield    Value `json:"dividendYield"`
	FiftyTwoWeekHigh Value `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  Value `json:"fiftyTwoWeekLow"`
}

type KeyStatistics struct {
	TrailingEps Value `json:"trailingEps"`
}

type AssetProfile struct {
	Sector              string `json:"sector"`
	LongBusinessSummary string `json:"longBusinessSummary"`
}

type FinancialData struct {
	TotalRevenue    Value `json:"totalRevenue"`
	ProfitMargins   Value `json:"profitMargins"`
	TargetMeanPrice Value `json:"targetMeanPrice"`
}

// Result is one quoteSummary result with the modules we request.
type Result struct {
	Price                *Price         `json:"price"`
	SummaryDetail        *SummaryDetail `json:"summaryDetail"`
	DefaultKeyStatistics *KeyStatistics `json:"defaultKeyStatistics"`
	AssetProfile         *AssetProfile  `json:"assetProfile"`
	FinancialData        *FinancialData `json:"financialData"`
}

// CompanyName prefers the long name.
func (r *Result) CompanyName() string {
	if r == nil || r.Price == nil {
		return ""
	}
	if name := strings.TrimSpace(r.Price.LongName); name != "" {
		return name
	}
	return strings.TrimSpace(r.Price.ShortName)
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Response is the quoteSummary envelope. Yahoo reports crumb and quota
// problems under "finance" instead of "quoteSummary".
type Response struct {
	QuoteSummary *struct {
		Result []Result  `json:"result"`
		Error  *apiError `json:"error"`
	} `json:"quoteSummary"`
	Finance *struct {
		Error *apiError `json:"error"`
	} `json:"finance"`
}

// Result returns the first result, a SoftFailure for finance.error, or
// ErrNoData when Yahoo has nothing for the symbol.
func (r *Response) Result() (*Result, error) {
	if r == nil {
		return nil, types.ErrNoData
	}
	if r.Finance != nil && r.Finance.Error != nil {
		return nil, types.NewSoftFailure(Name, r.Finance.Error.Description)
	}
	if r.QuoteSummary == nil {
		return nil, fmt.Errorf("%w: %s: missing quoteSummary", types.ErrMalformed, Name)
	}
	if r.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrNoData, r.QuoteSummary.Error.Description)
	}
	if len(r.QuoteSummary.Result) == 0 {
		return nil, types.ErrNoData
	}
	return &r.QuoteSummary.Result[0], nil
}

type Client struct {
	http      *api.Client
	cookieURL string

	mu    sync.Mutex
	crumb string
}

// New creates a client for baseURL (e.g. https://query1.finance.yahoo.com).
// cookieURL (e.g. https://fc.yahoo.com) hands out the session cookie the
// crumb is bound to; empty skips that step.
func New(baseURL, cookieURL string, opts ...api.ClientOption) *Client {
	jar, _ := cookiejar.New(nil)
	opts = append([]api.ClientOption{
		api.WithBaseURL(strings.TrimRight(baseURL, "/")),
		api.WithHeaders(api.YahooFinanceHeaders()),
		api.WithCookieJar(jar),
	}, opts...)
	return &Client{http: api.NewClient(opts...), cookieURL: cookieURL}
}

func (c *Client) Name() string {
	return Name
}

// QuoteSummary fetches the raw quote summary envelope for symbol. A rejected
// crumb is refreshed and the request retried once.
func (c *Client) QuoteSummary(ctx context.Context, symbol string) (*Response, error) {
	for attempt := 0; ; attempt++ {
		crumb, err := c.sessionCrumb(ctx)
		if err != nil {
			return nil, err
		}

		resp, err := c.http.GET(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), url.Values{
			"modules": {modules},
			"crumb":   {crumb},
		})
		if err != nil {
			if attempt == 0 && api.IsStatus(err, http.StatusUnauthorized) {
				c.dropCrumb(crumb)
				continue
			}
			return nil, classify(err)
		}

		var out Response
		if err := resp.ParseJSON(&out); err != nil {
			return nil, err
		}
		return &out, nil
	}
}

// sessionCrumb returns the cached crumb, or runs the cookie and crumb
// handshake when there is none.
func (c *Client) sessionCrumb(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.crumb != "" {
		return c.crumb, nil
	}

	if c.cookieURL != "" {
		if err := c.fetchCookie(ctx); err != nil {
			return "", err
		}
	}

	resp, err := c.http.GET(ctx, "/v1/test/getcrumb", nil)
	if err != nil {
		return "", classify(err)
	}
	crumb := strings.TrimSpace(resp.String())
	if crumb == "" || strings.ContainsAny(crumb, "<{ ") {
		return "", types.NewSoftFailure(Name, "Invalid Crumb")
	}
	c.crumb = crumb
	return crumb, nil
}

// fetchCookie lets the cookie host set the session cookie. It answers 404,
// so only transport failures count.
func (c *Client) fetchCookie(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cookieURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	for k, v := range api.YahooFinanceHeaders() {
		req.Header.Set(k, v)
	}

	resp, err := c.http.HTTPClient().Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: session cookie: %v", types.ErrTransient, Name, err)
	}
	resp.Body.Close()
	return nil
}

func (c *Client) dropCrumb(crumb string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.crumb == crumb {
		c.crumb = ""
	}
}

// Probe confirms symbol exists and returns its company name
func (c *Client) Probe(ctx context.Context, symbol string) (string, error) {
	env, err := c.QuoteSummary(ctx, symbol)
	if err != nil {
		return "", err
	}
	result, err := env.Result()
	if err != nil {
		return "", err
	}
	name := result.CompanyName()
	if name == "" {
		return "", types.ErrNoData
	}
	return name, nil
}

func classify(err error) error {
	var se *api.StatusError
	if !errors.As(err, &se) {
		return err
	}
	if se.StatusCode == http.StatusTooManyRequests {
		return types.NewSoftFailure(Name, "Too Many Requests")
	}

	// Error statuses usually still carry the envelope
	var env Response
	if json.Unmarshal(se.Body, &env) == nil {
		if _, envErr := env.Result(); envErr != nil && !errors.Is(envErr, types.ErrMalformed) {
			return envErr
		}
	}
	if se.StatusCode == http.StatusNotFound {
		return types.ErrNoData
	}
	return fmt.Errorf("%w: %s: %v", types.ErrTransient, Name, err)
}
