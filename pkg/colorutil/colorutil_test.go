package colorutil

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDim(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 127, G: 127, A: 255}, Dim(Yellow, 0.5))
	assert.Equal(t, Cyan, Dim(Cyan, 2))
	assert.Equal(t, color.RGBA{A: 255}, Dim(White, -1))
}

func TestMix(t *testing.T) {
	assert.Equal(t, Black, Mix(Black, White, 0))
	assert.Equal(t, White, Mix(Black, White, 1))
	assert.Equal(t, color.RGBA{R: 128, G: 128, B: 128, A: 255}, Mix(Black, White, 0.5))
}
