package keys

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

type hasher interface {
	WriteString(value string) error
}

// Param is one named component of a structured cache key.
type Param struct {
	Name  string
	Value string
}

// Int64Param builds a Param from an int64 value.
func Int64Param(name string, value int64) Param {
	return Param{Name: name, Value: strconv.FormatInt(value, 10)}
}

// IntParam builds a Param from an int value.
func IntParam(name string, value int) Param {
	return Param{Name: name, Value: strconv.Itoa(value)}
}

// NewParamsHasher returns a hasher for a set of named parameters.
// It sorts the parameters first to guarantee that two sets that are identical
// except for the ordering return the same hash.
func NewParamsHasher(params ...Param) *paramsHasher {
	return &paramsHasher{params}
}

type paramsHasher struct {
	params []Param
}

func (p *paramsHasher) Append(h hasher) error {
	sortedParams := append([]Param(nil), p.params...) // Copy input to avoid mutating it

	sort.SliceStable(sortedParams, func(i, j int) bool {
		if sortedParams[i].Name != sortedParams[j].Name {
			return sortedParams[i].Name < sortedParams[j].Name
		}
		return sortedParams[i].Value < sortedParams[j].Value
	})

	// prefix to avoid overlap with previous strings written
	if err := h.WriteString("/"); err != nil {
		return err
	}

	for _, param := range sortedParams {
		// parameter with a separator at the end
		if err := h.WriteString(fmt.Sprintf("%s=%s,", param.Name, param.Value)); err != nil {
			return err
		}
	}

	return nil
}

// CacheKey computes a stable key for a namespace and a set of parameters.
// Parameter order does not change the resulting key.
func CacheKey(namespace string, params ...Param) string {
	hasher := NewCacheKeyHasher(xxhash.New())

	_ = hasher.WriteString(namespace)
	_ = NewParamsHasher(params...).Append(hasher)

	return strconv.FormatUint(hasher.Key().ToUInt64(), 10)
}
