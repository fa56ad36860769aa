package internal

import "testing"

func TestGetCurrency_CaseInsensitive(t *testing.T) {
	tests := []string{"usd", "Usd", "USD", " usd "}
	for _, code := range tests {
		c := GetCurrency(code)
		if c.Code != "USD" {
			t.Errorf("GetCurrency(%q).Code = %q, want USD", code, c.Code)
		}
	}
}

func TestGetCurrency_EmptyDefaultsToUSD(t *testing.T) {
	if c := GetCurrency(""); c.Code != DefaultCurrency {
		t.Errorf("GetCurrency(\"\").Code = %q, want %q", c.Code, DefaultCurrency)
	}
}

func TestCurrency_Format(t *testing.T) {
	// Note: x/text uses non-breaking space (U+00A0) for Swedish thousand separators
	nbsp := " "

	tests := []struct {
		name   string
		code   string
		amount int64
		want   string
	}{
		{"USD small", "USD", 100, "$100"},
		{"USD thousands", "USD", 1234, "$1,234"},
		{"USD millions", "USD", 36431250, "$36,431,250"},
		{"USD negative", "USD", -50, "-$50"},
		{"USD zero", "USD", 0, "$0"},
		{"EUR thousands", "EUR", 1234, "1.234 €"},
		{"EUR negative", "EUR", -1234, "-1.234 €"},
		{"GBP thousands", "GBP", 1234, "£1,234"},
		{"SEK thousands", "SEK", 1234, "1" + nbsp + "234 kr"},
		{"Unknown small", "XYZ", 100, "100 XYZ"},
		{"Unknown thousands", "XYZ", 1234, "1,234 XYZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := GetCurrency(tt.code)
			got := c.Format(tt.amount)
			if got != tt.want {
				t.Errorf("Format(%v) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestCurrency_FormatDelta(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		delta int64
		want  string
	}{
		{"USD growth", "USD", 200, "+$200"},
		{"USD flat", "USD", 0, "+$0"},
		{"USD loss", "USD", -50, "-$50"},
		{"EUR loss", "EUR", -2500, "-2.500 €"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetCurrency(tt.code).FormatDelta(tt.delta)
			if got != tt.want {
				t.Errorf("FormatDelta(%v) = %q, want %q", tt.delta, got, tt.want)
			}
		})
	}
}
