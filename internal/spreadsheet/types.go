package spreadsheet

// Order is one extracted order row. Index is the row's position in the
// extracted table (zero-based, assigned after filtering) and is the order's
// identity for selection and routing. Delivery, Phone and ZipCode stay
// strings so leading zeros and non-numeric tokens survive.
//
// Quantities maps every canonical menu item name to the quantity parsed from
// ItemsText; it is filled in by the item matcher after extraction.
type Order struct {
	Index      int
	Delivery   string
	Customer   string
	ItemsText  string
	Phone      string
	Address    string
	City       string
	ZipCode    string
	Quantities map[string]int
}
