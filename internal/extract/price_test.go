package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{name: "peso symbol with separators", in: "₱1,299.00", want: 1299.00},
		{name: "PHP prefix", in: "PHP 500", want: 500},
		{name: "lowercase php", in: "php 1,050.50", want: 1050.50},
		{name: "bare P prefix", in: "P250", want: 250},
		{name: "decimal only", in: "1299.99", want: 1299.99},
		{name: "price inside text", in: "now only ₱89.00 each", want: 89},
		{name: "no price", in: "no price here", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "zero", in: "₱0.00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNoPrice)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"-20%", 20, true},
		{"20% off", 20, true},
		{"- 35 %", 35, true},
		{"no discount", 0, false},
		{"150%", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParsePercent(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"(123)", 123, true},
		{"1.2k sold", 1200, true},
		{"4521", 4521, true},
		{"no reviews", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseCount(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseRating(t *testing.T) {
	got, ok := ParseRating("4.7")
	require.True(t, ok)
	assert.Equal(t, 4.7, got)

	_, ok = ParseRating("9.9") // outside star scale
	assert.False(t, ok)

	_, ok = ParseRating("")
	assert.False(t, ok)
}
