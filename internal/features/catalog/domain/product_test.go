package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStock(t *testing.T) {
	assert.Equal(t, StockLevelOut, ClassifyStock(0))
	assert.Equal(t, StockLevelLow, ClassifyStock(1))
	assert.Equal(t, StockLevelLow, ClassifyStock(10))
	assert.Equal(t, StockLevelIn, ClassifyStock(11))
	assert.Equal(t, StockLevelIn, ClassifyStock(500))
}

func TestProduct_StockLevel(t *testing.T) {
	assert.Equal(t, StockLevelOut, Product{Stock: 0}.StockLevel())
	assert.Equal(t, StockLevelLow, Product{Stock: 7}.StockLevel())
	assert.Equal(t, StockLevelIn, Product{Stock: 42}.StockLevel())
}

func TestValidateImageCount(t *testing.T) {
	assert.ErrorIs(t, ValidateImageCount(0), ErrInsufficientImages)
	assert.ErrorIs(t, ValidateImageCount(2), ErrInsufficientImages)
	assert.NoError(t, ValidateImageCount(3))
	assert.NoError(t, ValidateImageCount(5))
}
