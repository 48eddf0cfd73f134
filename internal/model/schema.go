package model

// All lists every table of a book, parents first.
func All() []any {
	return []any{
		&Category{},
		&Supplier{},
		&Customer{},
		&Product{},
		&Order{},
		&OrderLine{},
		&LedgerEntry{},
	}
}
