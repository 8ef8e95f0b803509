package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoneyHelpers(t *testing.T) {
	assert.Equal(t, 90.0, Percent(1000, 9))
	assert.Equal(t, 91.53, Percent(1016.95, 9))
	assert.Equal(t, 0.3, Sum(0.1, 0.2))
	assert.Equal(t, 25000.0, Mul(1250, 20))
	assert.Equal(t, 1250.0, Div(25000, 20))
	assert.Equal(t, 0.0, Div(100, 0))
	assert.Equal(t, 0.0, Div(100, -3))
}
