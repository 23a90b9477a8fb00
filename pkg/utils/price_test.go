package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront-search-api/internal/models"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name  string
		money models.Money
		want  string
	}{
		{"whole dollars", models.Money{Amount: "20", CurrencyCode: "USD"}, "$20.00"},
		{"one decimal", models.Money{Amount: "19.9", CurrencyCode: "USD"}, "$19.90"},
		{"kept verbatim", models.Money{Amount: "0.10", CurrencyCode: "EUR"}, "€0.10"},
		{"many decimals untouched", models.Money{Amount: "1.005", CurrencyCode: "GBP"}, "£1.005"},
		{"trailing zeros trimmed to scale", models.Money{Amount: "24.9000", CurrencyCode: "USD"}, "$24.90"},
		{"zero decimal currency", models.Money{Amount: "1500", CurrencyCode: "JPY"}, "¥1500"},
		{"zero decimal currency from backend", models.Money{Amount: "1500.0", CurrencyCode: "JPY"}, "¥1500"},
		{"code as symbol", models.Money{Amount: "12.5", CurrencyCode: "CHF"}, "CHF 12.50"},
		{"lower case code", models.Money{Amount: "5", CurrencyCode: "usd"}, "$5.00"},
		{"unknown currency", models.Money{Amount: "1500", CurrencyCode: "ZZZ"}, "1500 ZZZ"},
		{"no currency", models.Money{Amount: "7.5"}, "7.5"},
		{"empty amount", models.Money{CurrencyCode: "USD"}, ""},
		{"non numeric left alone", models.Money{Amount: "Free", CurrencyCode: "USD"}, "$Free"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.money))
		})
	}
}

func TestToScale(t *testing.T) {
	assert.Equal(t, "3", toScale("3.000", 0))
	assert.Equal(t, "3.10", toScale("3.1", 2))
	assert.Equal(t, "3.123", toScale("3.123", 2))
	assert.Equal(t, "-4.00", toScale("-4", 2))
}
