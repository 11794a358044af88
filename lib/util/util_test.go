package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIn(t *testing.T) {
	ss := []string{"Project", "NFTTier"}
	assert.True(t, In(ss, "NFTTier"))
	assert.False(t, In(ss, "nfttier"))
	assert.False(t, In(nil, ""))
	assert.True(t, In([]int{1, 2}, 2))
}
