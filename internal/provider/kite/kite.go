// Package kite probes symbols against the Zerodha Kite instrument master.
package kite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"market-pulse/internal/types"
)

const Name = "kite"

// instrumentSource is the slice of kiteconnect.Client the prober needs
type instrumentSource interface {
	GetInstrumentsByExchange(exchange string) (kiteconnect.Instruments, error)
}

// Prober confirms "<SYMBOL><suffix>" exists as an equity on the exchange the
// suffix names. Each exchange's instrument dump is fetched once and kept for
// the life of the Prober.
type Prober struct {
	src   instrumentSource
	names map[string]map[string]string // exchange -> tradingsymbol -> name
	mu    sync.Mutex
}

// New builds a Prober backed by the Kite Connect REST API
func New(apiKey, accessToken, baseURL string, httpClient *http.Client) *Prober {
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	if httpClient != nil {
		kc.SetHTTPClient(httpClient)
	}
	if baseURL != "" {
		kc.SetBaseURI(strings.TrimRight(baseURL, "/"))
	}
	return newProber(kc)
}

func newProber(src instrumentSource) *Prober {
	return &Prober{
		src:   src,
		names: make(map[string]map[string]string),
	}
}

func (p *Prober) Name() string {
	return Name
}

// Probe returns the listed company name for symbol, or ErrNoData
func (p *Prober) Probe(ctx context.Context, symbol string) (string, error) {
	base, _ := types.SplitSymbol(symbol)
	exchange, ok := types.ExchangeFor(symbol)
	if !ok {
		return "", fmt.Errorf("%w: %s: unsupported suffix in %s", types.ErrNoData, Name, symbol)
	}

	names, err := p.instruments(ctx, exchange.Code)
	if err != nil {
		return "", err
	}

	name, ok := names[strings.ToUpper(base)]
	if !ok {
		return "", types.ErrNoData
	}
	return name, nil
}

func (p *Prober) instruments(ctx context.Context, exchange string) (map[string]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if names, ok := p.names[exchange]; ok {
		return names, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrTransient, err)
	}

	instruments, err := p.src.GetInstrumentsByExchange(exchange)
	if err != nil {
		return nil, classify(err)
	}

	names := make(map[string]string, len(instruments))
	for _, inst := range instruments {
		if inst.InstrumentType != "EQ" || inst.Tradingsymbol == "" {
			continue
		}
		name := strings.TrimSpace(inst.Name)
		if name == "" {
			name = inst.Tradingsymbol
		}
		names[strings.ToUpper(inst.Tradingsymbol)] = name
	}
	p.names[exchange] = names
	return names, nil
}

func classify(err error) error {
	var kerr kiteconnect.Error
	if errors.As(err, &kerr) {
		if kerr.Code == http.StatusTooManyRequests {
			return types.NewSoftFailure(Name, kerr.Message)
		}
		if kerr.ErrorType == kiteconnect.TokenError || kerr.ErrorType == kiteconnect.PermissionError {
			return types.NewSoftFailure(Name, kerr.Message)
		}
	}
	return fmt.Errorf("%w: %s: %v", types.ErrTransient, Name, err)
}
