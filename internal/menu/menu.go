package menu

import (
	"encoding/json"
	"fmt"
	"os"

	"order-dispatch/internal/common"
)

// Item is one canonical menu entry from the static reference list. NameZH is
// the canonical label order text is matched against; list order is
// significant because the matcher takes the first item that matches.
type Item struct {
	ID      int    `json:"id"`
	NameZH  string `json:"name_zh"`
	ShortZH string `json:"short_zh"`
	NameEN  string `json:"name_en"`
}

// Load reads the menu reference list from a JSON file, validates it against
// the menu schema, and enforces uniqueness of ids and full names.
func Load(path string) ([]Item, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates a menu reference list.
func Parse(raw []byte) ([]Item, error) {
	if err := validateAgainstSchema(raw); err != nil {
		return nil, common.NewAppError("MENU_INVALID", "menu file does not match schema", err)
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("unmarshal menu: %w", err)
	}
	if len(items) == 0 {
		return nil, common.NewAppError("MENU_INVALID", "menu file contains no items", common.ErrInvalidInput)
	}

	seenID := make(map[int]struct{}, len(items))
	seenName := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, ok := seenID[it.ID]; ok {
			return nil, common.NewAppError("MENU_INVALID", fmt.Sprintf("duplicate item id %d", it.ID), common.ErrInvalidInput)
		}
		if _, ok := seenName[it.NameZH]; ok {
			return nil, common.NewAppError("MENU_INVALID", fmt.Sprintf("duplicate item name %q", it.NameZH), common.ErrInvalidInput)
		}
		seenID[it.ID] = struct{}{}
		seenName[it.NameZH] = struct{}{}
	}
	return items, nil
}

// Names returns the canonical full names in list order.
func Names(items []Item) []string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.NameZH
	}
	return names
}
