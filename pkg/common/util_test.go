package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvOr(t *testing.T) {
	t.Setenv("PDM_TEST_ENV_OR", "  value  ")
	assert.Equal(t, "value", GetEnvOr("PDM_TEST_ENV_OR", "fallback"))

	t.Setenv("PDM_TEST_ENV_OR", "   ")
	assert.Equal(t, "fallback", GetEnvOr("PDM_TEST_ENV_OR", "fallback"))

	assert.Equal(t, "fallback", GetEnvOr("PDM_TEST_ENV_OR_UNSET", "fallback"))
}

func TestDistinct(t *testing.T) {
	assert.Equal(t, []string{"M002", "M001", "M003"}, Distinct([]string{"M002", "M001", "M002", "M003", "M001"}))
	assert.Empty(t, Distinct([]int{}))
}

func TestMapper(t *testing.T) {
	doubled := Mapper([]int{1, 2, 3}, func(i int) int { return i * 2 })
	assert.Equal(t, []int{2, 4, 6}, doubled)
}
