package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageCatalog(t *testing.T) {
	catalog := NewImageCatalog("https://img.local/none.png", map[uint]string{
		1: "https://img.local/1.png",
		2: "",
	})

	testCases := []struct {
		name      string
		productID uint
		expected  string
	}{
		{name: "Mapped product", productID: 1, expected: "https://img.local/1.png"},
		{name: "Blank mapping uses fallback", productID: 2, expected: "https://img.local/none.png"},
		{name: "Unmapped product uses fallback", productID: 99, expected: "https://img.local/none.png"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, catalog.URL(tc.productID))
		})
	}
}

func TestImageCatalog_DefaultFallback(t *testing.T) {
	assert.Equal(t, DefaultImageFallback, NewImageCatalog("", nil).URL(1))

	var nilCatalog *ImageCatalog
	assert.Equal(t, DefaultImageFallback, nilCatalog.URL(1))
}
