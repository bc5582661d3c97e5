package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheKeyIsOrderIndependent(t *testing.T) {
	key1 := CacheKey("chain",
		Int64Param("brand_id", 42),
		IntParam("max_depth", 5),
	)
	key2 := CacheKey("chain",
		IntParam("max_depth", 5),
		Int64Param("brand_id", 42),
	)

	require.Equal(t, key1, key2)
}

func TestCacheKeyDiffersByNamespace(t *testing.T) {
	key1 := CacheKey("chain", Int64Param("brand_id", 42))
	key2 := CacheKey("beneficiary_brands", Int64Param("brand_id", 42))

	require.NotEqual(t, key1, key2)
}

func TestCacheKeyDiffersByParams(t *testing.T) {
	base := CacheKey("chain", Int64Param("brand_id", 42), IntParam("max_depth", 5))

	tests := []struct {
		name   string
		params []Param
	}{
		{
			name:   "different_value",
			params: []Param{Int64Param("brand_id", 43), IntParam("max_depth", 5)},
		},
		{
			name:   "different_param_name",
			params: []Param{Int64Param("beneficiary_id", 42), IntParam("max_depth", 5)},
		},
		{
			name:   "missing_param",
			params: []Param{Int64Param("brand_id", 42)},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.NotEqual(t, base, CacheKey("chain", test.params...))
		})
	}
}

func TestCacheKeyValueAmbiguity(t *testing.T) {
	// name/value pairs must not collapse into the same byte stream
	key1 := CacheKey("chain", Param{Name: "a", Value: "bc"})
	key2 := CacheKey("chain", Param{Name: "ab", Value: "c"})

	require.NotEqual(t, key1, key2)
}
