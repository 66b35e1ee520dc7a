package quote

import "strings"

const (
	// DefaultCompanyName is the placeholder used when a provider has no
	// company name for a symbol.
	DefaultCompanyName = "N/A"
	// DefaultCurrency is assumed when a provider omits the currency.
	DefaultCurrency = "USD"
)

// Quote is the canonical shape returned to clients regardless of which
// provider produced it. Change and PercentChange are pointers because not
// every lookup can compute them: a price-only lookup has no open price, and
// PercentChange is omitted entirely when the open price is zero.
type Quote struct {
	Symbol        string   `json:"symbol"`
	CompanyName   string   `json:"companyName"`
	Logo          *string  `json:"logo"`
	Price         float64  `json:"price"`
	Change        *float64 `json:"change,omitempty"`
	PercentChange *float64 `json:"percentChange,omitempty"`
	Currency      string   `json:"currency"`
}

// CanonicalSymbol normalizes a symbol for display and for use as part of a
// document id: trimmed and uppercased regardless of input case.
func CanonicalSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// New builds a quote with only a price, applying canonical defaults.
func New(symbol string, price float64) Quote {
	return Quote{
		Symbol:      CanonicalSymbol(symbol),
		CompanyName: DefaultCompanyName,
		Price:       price,
	}.withDefaults()
}

// FromOpenClose builds a quote from an open/close pair, deriving the change
// fields. PercentChange is left nil when open is zero so a non-finite value
// never reaches a client.
func FromOpenClose(symbol, currency string, open, closePrice float64) Quote {
	q := Quote{
		Symbol:      CanonicalSymbol(symbol),
		CompanyName: DefaultCompanyName,
		Price:       closePrice,
		Currency:    currency,
	}
	change := closePrice - open
	q.Change = &change
	if open != 0 {
		pct := change / open * 100
		q.PercentChange = &pct
	}
	return q.withDefaults()
}

func (q Quote) withDefaults() Quote {
	if q.CompanyName == "" {
		q.CompanyName = DefaultCompanyName
	}
	if q.Currency == "" {
		q.Currency = DefaultCurrency
	}
	return q
}

// CompanyOrDefault substitutes the placeholder for an empty company name.
func CompanyOrDefault(name string) string {
	if name == "" {
		return DefaultCompanyName
	}
	return name
}

// CurrencyOrDefault substitutes the default currency for an empty one.
func CurrencyOrDefault(currency string) string {
	if currency == "" {
		return DefaultCurrency
	}
	return currency
}
