package menu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validMenu = `[
  {"id": 1, "name_zh": "红烧狮子头4个/份", "short_zh": "狮子头", "name_en": "Braised Pork Meatballs"},
  {"id": 2, "name_zh": "梅菜扣肉", "short_zh": "扣肉", "name_en": "Braised Pork"}
]`

func TestParse(t *testing.T) {
	items, err := Parse([]byte(validMenu))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].ID)
	assert.Equal(t, "红烧狮子头4个/份", items[0].NameZH)
	assert.Equal(t, "扣肉", items[1].ShortZH)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "menu: yes"},
		{"empty list", "[]"},
		{"missing field", `[{"id": 1, "name_zh": "梅菜扣肉", "short_zh": "扣肉"}]`},
		{"unknown field", `[{"id": 1, "name_zh": "梅菜扣肉", "short_zh": "扣肉", "name_en": "", "price": 10}]`},
		{"non-integer id", `[{"id": "1", "name_zh": "梅菜扣肉", "short_zh": "扣肉", "name_en": ""}]`},
		{"duplicate id", `[
			{"id": 1, "name_zh": "梅菜扣肉", "short_zh": "扣肉", "name_en": ""},
			{"id": 1, "name_zh": "八宝饭", "short_zh": "八宝饭", "name_en": ""}
		]`},
		{"duplicate name", `[
			{"id": 1, "name_zh": "梅菜扣肉", "short_zh": "扣肉", "name_en": ""},
			{"id": 2, "name_zh": "梅菜扣肉", "short_zh": "扣肉", "name_en": ""}
		]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.json")
	require.NoError(t, os.WriteFile(path, []byte(validMenu), 0o644))

	items, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestNames(t *testing.T) {
	items, err := Parse([]byte(validMenu))
	require.NoError(t, err)
	assert.Equal(t, []string{"红烧狮子头4个/份", "梅菜扣肉"}, Names(items))
}
