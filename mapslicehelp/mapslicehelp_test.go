package mapslicehelp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"b": 1, "c": 2, "a": 3}
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(m))
	assert.Empty(t, SortedKeys(map[int]bool{}))
}

func TestAppendUnique(t *testing.T) {
	s := orderedmap.New[string, struct{}]()
	assert.True(t, AppendUnique(s, "z.zip"))
	assert.True(t, AppendUnique(s, "a.zip"))
	assert.False(t, AppendUnique(s, "z.zip"))
	assert.Equal(t, []string{"z.zip", "a.zip"}, OrderedMapKeys(s))
}

func TestLastElement(t *testing.T) {
	assert.Nil(t, LastElement([]int{}))
	assert.Equal(t, 3, *LastElement([]int{1, 2, 3}))
}

func TestAsKeys(t *testing.T) {
	assert.Len(t, AsKeys([]int{1, 2, 2, 3}), 3)
}
