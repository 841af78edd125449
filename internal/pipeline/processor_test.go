package pipeline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"order-dispatch/internal/common"
	"order-dispatch/internal/menu"
	"order-dispatch/internal/reconcile"
	"order-dispatch/internal/spreadsheet"
)

var testMenu = []menu.Item{
	{ID: 1, NameZH: "红烧狮子头4个/份", ShortZH: "狮子头", NameEN: "Braised Pork Meatballs"},
	{ID: 2, NameZH: "韭菜猪肉水饺50个/份", ShortZH: "水饺", NameEN: "Pork and Chive Dumplings"},
	{ID: 3, NameZH: "椒盐鸡翅中10个/份", ShortZH: "鸡翅", NameEN: "Salt and Pepper Wings"},
	{ID: 4, NameZH: "八宝饭", ShortZH: "八宝饭", NameEN: "Eight Treasure Rice"},
}

func buildWorkbook(t *testing.T, rows [][]string) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, val := range row {
			if val == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, val))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

// rawExport carries two orders plus a trailing summary whose dumpling count
// disagrees with the orders by one.
func rawExport() [][]string {
	return [][]string{
		{"导出时间: 2026-08-15"},
		{"群接龙"},
		{},
		{"序号", "姓名", "内容", "标签", "手机号码", "收货地址", "所在城市", "邮政编码"},
		{"1", "张三", "红烧狮子头4个/份x2， 总价：$56.00", "VIP", "6175551234", "100 Main St", "Quincy", "02169"},
		{"2", "李四", "韭菜猪肉水饺50个/份x1， 椒盐鸡翅中10个/份x3， 总价：$98.00", "", "6175559876", "8 Oak Ave", "Malden", "02148"},
		{},
		{"商品", "", "数量"},
		{"红烧狮子头4个/份", "", "2"},
		{"韭菜猪肉水饺50个/份", "", "2"},
		{"椒盐鸡翅中10个/份", "", "3"},
		{"总计", "", "7"},
	}
}

func TestProcess(t *testing.T) {
	p := NewProcessor(testMenu, nil)

	result, err := p.Process(buildWorkbook(t, rawExport()))
	require.NoError(t, err)

	assert.Equal(t, spreadsheet.LayoutRaw, result.Layout)
	require.Len(t, result.Orders, 2)

	first := result.Orders[0]
	assert.Equal(t, "张三", first.Customer)
	assert.Equal(t, "100 Main St", first.Address)
	assert.Equal(t, "02169", first.ZipCode)
	assert.Equal(t, 2, first.Quantities["红烧狮子头4个/份"])
	assert.Equal(t, 0, first.Quantities["八宝饭"])

	second := result.Orders[1]
	assert.Equal(t, 1, second.Quantities["韭菜猪肉水饺50个/份"])
	assert.Equal(t, 3, second.Quantities["椒盐鸡翅中10个/份"])

	// The summary claims two dumpling portions but the orders add up to one.
	require.Len(t, result.Discrepancies, 1)
	assert.Equal(t, reconcile.Discrepancy{Item: "韭菜猪肉水饺50个/份", Computed: 1, Expected: 2}, result.Discrepancies[0])
}

func TestProcessNotAWorkbook(t *testing.T) {
	p := NewProcessor(testMenu, nil)

	_, err := p.Process(strings.NewReader("plain text, not xlsx"))
	assert.Error(t, err)
}

func TestProcessNoOrderRows(t *testing.T) {
	p := NewProcessor(testMenu, nil)

	_, err := p.Process(buildWorkbook(t, [][]string{
		{"导出时间: 2026-08-15"},
		{"群接龙"},
		{},
		{"序号", "姓名", "内容", "标签", "手机号码", "收货地址", "所在城市", "邮政编码"},
		{"1", "张三", "备注（没有总价标记）", "", "6175551234", "100 Main St", "Quincy", "02169"},
	}))
	assert.ErrorIs(t, err, common.ErrNoOrders)
}
