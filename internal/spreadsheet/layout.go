package spreadsheet

// Layout identifies which of the two known export shapes a workbook uses.
// Raw exports come straight from the chat-commerce platform and carry a 标签
// (tag) column; formatted exports have been rearranged by hand and embed a
// 商品汇总 summary section instead.
type Layout string

const (
	LayoutRaw       Layout = "raw"
	LayoutFormatted Layout = "formatted"
)

// Markers that structure the export. 总价 distinguishes real order rows from
// the trailing summary block appended below them in the same sheet.
const (
	tagColumnHeader    = "标签"
	orderRowMarker     = "总价"
	summaryItemHeader  = "商品"
	summaryQtyHeader   = "数量"
	summarySectionCell = "商品汇总"
	grandTotalCell     = "总计"
)

// metadataRows is the number of rows above the header in both layouts.
const metadataRows = 3

// requiredColumns is how many canonical fields an order row carries.
const requiredColumns = 7

// layoutColumns lists, per layout, which sheet columns (0-based) hold the
// seven canonical order fields.
var layoutColumns = map[Layout][]int{
	LayoutRaw:       {0, 1, 2, 4, 5, 6, 7},
	LayoutFormatted: {1, 2, 3, 4, 5, 6, 7},
}

// Canonical field keys used internally by the extractor.
const (
	fieldDelivery = "delivery"
	fieldCustomer = "customer"
	fieldItems    = "items"
	fieldPhone    = "phone"
	fieldAddress  = "address"
	fieldCity     = "city"
	fieldZip      = "zip"
)

// headerFields maps vendor header cells to canonical fields. The vendor uses
// two spellings for postal code.
var headerFields = map[string]string{
	"序号":   fieldDelivery,
	"姓名":   fieldCustomer,
	"内容":   fieldItems,
	"手机号码": fieldPhone,
	"收货地址": fieldAddress,
	"所在城市": fieldCity,
	"邮政编码": fieldZip,
	"邮编":   fieldZip,
}
