package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1299, "₱1,299.00"},
		{89.5, "₱89.50"},
		{1250000, "₱1,250,000.00"},
		{0, "₱0.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatPrice(tt.in))
	}
}

func TestCleanURL(t *testing.T) {
	assert.Equal(t,
		"https://www.lazada.com.ph/products/x-i123.html",
		cleanURL("https://www.lazada.com.ph/products/x-i123.html?spm=a2o4l.searchlist&search=1"))
	// Unparseable input passes through untouched.
	assert.Equal(t, "http://\x7f.example", cleanURL("http://\x7f.example"))
}
