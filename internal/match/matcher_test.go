package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"order-dispatch/internal/spreadsheet"
)

func annotate(names []string, itemsText string) map[string]int {
	o := spreadsheet.Order{ItemsText: itemsText}
	NewMatcher(names).Annotate(&o)
	return o.Quantities
}

func TestAnnotatePackedEntries(t *testing.T) {
	names := []string{"红烧狮子头4个/份", "韭菜猪肉水饺50个/份", "梅菜扣肉"}

	q := annotate(names, "红烧狮子头 4个/份x3， 韭菜猪肉水饺50/份x2， 总价：$100.00")

	assert.Equal(t, 3, q["红烧狮子头4个/份"])
	assert.Equal(t, 2, q["韭菜猪肉水饺50个/份"])
	// The trailing price segment contributes to no item.
	assert.Equal(t, 0, q["梅菜扣肉"])
}

func TestAnnotateDefaultsEveryItemToZero(t *testing.T) {
	names := []string{"红烧狮子头4个/份", "梅菜扣肉"}

	q := annotate(names, "梅菜扣肉x1， 总价：$28.00")

	assert.Len(t, q, 2)
	assert.Equal(t, 0, q["红烧狮子头4个/份"])
	assert.Equal(t, 1, q["梅菜扣肉"])
}

func TestAnnotateSkipsUnparseableEntries(t *testing.T) {
	tests := []struct {
		name      string
		itemsText string
	}{
		{"no quantity marker", "梅菜扣肉三份， 总价：$84.00"},
		{"no digits after x", "梅菜扣肉x几个， 总价：$84.00"},
		{"empty entry", "， 总价：$84.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := annotate([]string{"梅菜扣肉"}, tt.itemsText)
			assert.Equal(t, 0, q["梅菜扣肉"])
		})
	}
}

func TestAnnotateSingleSegmentKept(t *testing.T) {
	// With no delimiter there is only one segment; nothing is dropped even
	// though order texts normally end with a price segment.
	q := annotate([]string{"梅菜扣肉"}, "梅菜扣肉x2")
	assert.Equal(t, 2, q["梅菜扣肉"])
}

func TestAnnotateSplitsOnLastX(t *testing.T) {
	// The item name itself may contain an "x"; the quantity is whatever
	// follows the last one.
	q := annotate([]string{"xo酱炒饭"}, "xo酱炒饭x4， 总价：$40.00")
	assert.Equal(t, 4, q["xo酱炒饭"])
}

func TestAnnotateBidirectionalSubstring(t *testing.T) {
	names := []string{"韭菜猪肉水饺50个/份"}

	// Truncated vendor phrasing: entry text is a substring of the base name.
	q := annotate(names, "韭菜猪肉水饺x2， 总价：$30.00")
	assert.Equal(t, 2, q["韭菜猪肉水饺50个/份"])

	// Padded phrasing with internal spaces.
	q = annotate(names, "韭菜 猪肉 水饺 50个/份 特制x5， 总价：$75.00")
	assert.Equal(t, 5, q["韭菜猪肉水饺50个/份"])
}

func TestAnnotateFirstMatchWins(t *testing.T) {
	// 水饺 and 韭菜水饺 are mutual substrings after suffix stripping; the
	// entry must land on whichever comes first in menu order.
	names := []string{"水饺50个/份", "韭菜水饺50个/份"}

	q := annotate(names, "韭菜水饺x2， 总价：$30.00")

	assert.Equal(t, 2, q["水饺50个/份"])
	assert.Equal(t, 0, q["韭菜水饺50个/份"])
}
