// Package fundamentals maps each provider's company data onto one
// display-ready FundamentalsRecord.
package fundamentals

import (
	"fmt"

	"github.com/shopspring/decimal"

	"market-pulse/internal/provider/alphavantage"
	"market-pulse/internal/provider/finnhub"
	"market-pulse/internal/provider/yahoo"
	"market-pulse/internal/types"
)

// NormalizeAlphaVantage maps an OVERVIEW body. Quota notices become a
// SoftFailure and an empty body or one without a symbol is ErrNoData.
func NormalizeAlphaVantage(ticker string, raw map[string]any, descriptionLimit int) (*types.FundamentalsRecord, error) {
	if sf := alphavantage.DetectSoftFailure(raw); sf != nil {
		return nil, sf
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s: empty overview for %s", types.ErrNoData, alphavantage.Name, ticker)
	}

	get := func(key string) string {
		switch v := raw[key].(type) {
		case string:
			return v
		case float64:
			return decimal.NewFromFloat(v).String()
		default:
			return ""
		}
	}

	symbol := Text(get("Symbol"))
	if symbol == types.NotAvailable {
		return nil, fmt.Errorf("%w: %s: overview for %s has no symbol", types.ErrNoData, alphavantage.Name, ticker)
	}

	return &types.FundamentalsRecord{
		Provider:           alphavantage.Name,
		Ticker:             symbol,
		CompanyName:        Text(get("Name")),
		MarketCap:          Billions(parse(get("MarketCapitalization"))),
		PERatio:            Number(parse(get("PERatio"))),
		EPS:                Number(parse(get("EPS"))),
		DividendYield:      Percent(parse(get("DividendYield"))),
		FiftyTwoWeekHigh:   Number(parse(get("52WeekHigh"))),
		FiftyTwoWeekLow:    Number(parse(get("52WeekLow"))),
		Price:              types.NotAvailable,
		Currency:           Text(get("Currency")),
		Sector:             Text(get("Sector")),
		RevenueTTM:         Billions(parse(get("RevenueTTM"))),
		ProfitMargin:       Percent(parse(get("ProfitMargin"))),
		AnalystTargetPrice: Number(parse(get("AnalystTargetPrice"))),
		Description:        description(get("Description"), descriptionLimit),
	}, nil
}

// NormalizeYahoo maps a quote summary envelope
func NormalizeYahoo(ticker string, env *yahoo.Response, descriptionLimit int) (*types.FundamentalsRecord, error) {
	result, err := env.Result()
	if err != nil {
		return nil, err
	}
	if result.Price == nil {
		return nil, fmt.Errorf("%w: %s: no price module for %s", types.ErrNoData, yahoo.Name, ticker)
	}

	rec := &types.FundamentalsRecord{
		Provider:    yahoo.Name,
		Ticker:      Text(result.Price.Symbol),
		CompanyName: Text(result.CompanyName()),
		MarketCap:   Billions(fromFloat(result.Price.MarketCap.Raw)),
		Price:       Number(fromFloat(result.Price.RegularMarketPrice.Raw)),
		Currency:    Text(result.Price.Currency),
	}
	if rec.Ticker == types.NotAvailable {
		rec.Ticker = ticker
	}

	sd := result.SummaryDetail
	if sd == nil {
		sd = &yahoo.SummaryDetail{}
	}
	rec.PERatio = Number(fromFloat(sd.TrailingPE.Raw))
	rec.DividendYield = Percent(fromFloat(sd.DividendYield.Raw))
	rec.FiftyTwoWeekHigh = Number(fromFloat(sd.FiftyTwoWeekHigh.Raw))
	rec.FiftyTwoWeekLow = Number(fromFloat(sd.FiftyTwoWeekLow.Raw))

	ks := result.DefaultKeyStatistics
	if ks == nil {
		ks = &yahoo.KeyStatistics{}
	}
	rec.EPS = Number(fromFloat(ks.TrailingEps.Raw))

	fd := result.FinancialData
	if fd == nil {
		fd = &yahoo.FinancialData{}
	}
	rec.RevenueTTM = Billions(fromFloat(fd.TotalRevenue.Raw))
	rec.ProfitMargin = Percent(fromFloat(fd.ProfitMargins.Raw))
	rec.AnalystTargetPrice = Number(fromFloat(fd.TargetMeanPrice.Raw))

	ap := result.AssetProfile
	if ap == nil {
		ap = &yahoo.AssetProfile{}
	}
	rec.Sector = Text(ap.Sector)
	rec.Description = description(ap.LongBusinessSummary, descriptionLimit)

	return rec, nil
}

// Finnhub reports market cap in millions and margins/yields already as percentages
var million = decimal.NewFromInt(1_000_000)

// NormalizeFinnhub maps a company profile plus basic financials
func NormalizeFinnhub(ticker string, c *finnhub.Company, descriptionLimit int) (*types.FundamentalsRecord, error) {
	if c == nil || (c.Profile.GetName() == "" && c.Profile.GetTicker() == "") {
		return nil, fmt.Errorf("%w: %s: empty profile for %s", types.ErrNoData, finnhub.Name, ticker)
	}

	metric := func(keys ...string) (decimal.Decimal, bool) {
		for _, k := range keys {
			if f, ok := c.Metrics[k].(float64); ok {
				return decimal.NewFromFloat(f), true
			}
		}
		return decimal.Decimal{}, false
	}
	percentValue := func(d decimal.Decimal, ok bool) string {
		if !ok {
			return types.NotAvailable
		}
		return d.StringFixed(2) + "%"
	}

	rec := &types.FundamentalsRecord{
		Provider:           finnhub.Name,
		Ticker:             Text(c.Profile.GetTicker()),
		CompanyName:        Text(c.Profile.GetName()),
		PERatio:            Number(metric("peTTM", "peBasicExclExtraTTM")),
		EPS:                Number(metric("epsTTM", "epsBasicExclExtraItemsTTM")),
		DividendYield:      percentValue(metric("dividendYieldIndicatedAnnual", "currentDividendYieldTTM")),
		FiftyTwoWeekHigh:   Number(metric("52WeekHigh")),
		FiftyTwoWeekLow:    Number(metric("52WeekLow")),
		Price:              types.NotAvailable,
		Currency:           Text(c.Profile.GetCurrency()),
		Sector:             Text(c.Profile.GetFinnhubIndustry()),
		RevenueTTM:         types.NotAvailable,
		ProfitMargin:       percentValue(metric("netProfitMarginTTM")),
		AnalystTargetPrice: types.NotAvailable,
		Description:        types.NotAvailable,
	}
	if rec.Ticker == types.NotAvailable {
		rec.Ticker = ticker
	}
	if c.Profile.MarketCapitalization != nil {
		mc := decimal.NewFromFloat32(c.Profile.GetMarketCapitalization()).Mul(million)
		rec.MarketCap = Billions(mc, true)
	} else {
		rec.MarketCap = types.NotAvailable
	}

	return rec, nil
}

// description keeps text within the limit byte for byte
func description(s string, limit int) string {
	if Text(s) == types.NotAvailable {
		return types.NotAvailable
	}
	return Truncate(s, limit)
}
