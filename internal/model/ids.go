package model

// Typed surrogate keys. Rows reference each other only through these, never
// through display strings.
type (
	CategoryID  uint
	SupplierID  uint
	CustomerID  uint
	ProductID   uint
	OrderID     uint
	OrderLineID uint
	EntryID     uint
)
