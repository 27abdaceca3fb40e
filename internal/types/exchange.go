package types

import "strings"

// Exchange describes a market-qualifying ticker suffix.
type Exchange struct {
	Code   string
	Region string
}

// Exchanges maps ticker suffixes to the exchange they qualify.
var Exchanges = map[string]Exchange{
	".NS": {Code: "NSE", Region: "India (NSE)"},
	".BO": {Code: "BSE", Region: "India (BSE)"},
}

// SplitSymbol splits "RELIANCE.NS" into "RELIANCE" and ".NS".
// Symbols without a suffix return an empty suffix.
func SplitSymbol(symbol string) (base, suffix string) {
	i := strings.LastIndex(symbol, ".")
	if i <= 0 {
		return symbol, ""
	}
	return symbol[:i], strings.ToUpper(symbol[i:])
}

// ExchangeFor returns the exchange for a suffixed symbol.
func ExchangeFor(symbol string) (Exchange, bool) {
	_, suffix := SplitSymbol(symbol)
	ex, ok := Exchanges[suffix]
	return ex, ok
}
