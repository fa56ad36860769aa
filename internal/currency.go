package internal

import (
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency formats whole revenue amounts for one currency
type Currency struct {
	Code    string // "USD", "EUR", "SEK"
	symbol  string
	prefix  bool
	printer *message.Printer
}

// symbolOverrides provides custom symbols where x/text defaults aren't ideal
var symbolOverrides = map[string]string{
	"SEK": "kr",
	"NOK": "kr",
	"DKK": "kr",
	"ISK": "kr",
}

// homeLocale is the locale used to group digits for each currency
var homeLocale = map[string]language.Tag{
	"USD": language.AmericanEnglish,
	"EUR": language.German,
	"GBP": language.BritishEnglish,
	"SEK": language.Swedish,
	"NOK": language.Norwegian,
	"DKK": language.Danish,
	"CHF": language.German,
	"JPY": language.Japanese,
	"CAD": language.CanadianFrench,
	"AUD": language.MustParse("en-AU"),
	"BRL": language.BrazilianPortuguese,
	"INR": language.MustParse("en-IN"),
}

// prefixCurrencies place the symbol before the amount.
// x/text does not expose CLDR symbol placement, so this list is kept by hand.
var prefixCurrencies = map[string]bool{
	"USD": true, "GBP": true, "JPY": true, "CAD": true, "AUD": true, "INR": true,
}

// GetCurrency returns the Currency for a given code. Unknown codes format with
// English digit grouping and use the code itself as the symbol.
func GetCurrency(code string) Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCurrency
	}

	tag, ok := homeLocale[code]
	if !ok {
		tag = language.English
	}
	printer := message.NewPrinter(tag)

	symbol := code
	if sym, ok := symbolOverrides[code]; ok {
		symbol = sym
	} else if unit, err := currency.ParseISO(code); err == nil {
		symbol = printer.Sprint(currency.NarrowSymbol(unit))
	}

	return Currency{
		Code:    code,
		symbol:  symbol,
		prefix:  prefixCurrencies[code],
		printer: printer,
	}
}

// Format formats an amount with the currency symbol
func (c Currency) Format(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	formatted := c.printer.Sprint(number.Decimal(amount))
	if c.prefix {
		return sign + c.symbol + formatted
	}
	return sign + formatted + " " + c.symbol
}

// FormatDelta formats a signed change, always showing the sign
func (c Currency) FormatDelta(delta int64) string {
	if delta >= 0 {
		return "+" + c.Format(delta)
	}
	return c.Format(delta)
}
