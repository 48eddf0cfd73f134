package model

// Channel classifies a transaction for bookkeeping: corporate or personal.
type Channel string

const (
	ChannelCorporate Channel = "corporate"
	ChannelPersonal  Channel = "personal"
)

func (c Channel) Valid() bool {
	return c == ChannelCorporate || c == ChannelPersonal
}

// Direction tells whether a ledger entry is money in or money out.
type Direction string

const (
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

func (d Direction) Valid() bool {
	return d == DirectionIncome || d == DirectionExpense
}

type SupplierType string

const (
	SupplierProducer   SupplierType = "producer"
	SupplierAgent      SupplierType = "agent"
	SupplierWholesaler SupplierType = "wholesaler"
)

func (t SupplierType) Valid() bool {
	switch t {
	case SupplierProducer, SupplierAgent, SupplierWholesaler:
		return true
	}
	return false
}

type CustomerType string

const (
	CustomerProspect  CustomerType = "prospect"
	CustomerPartner   CustomerType = "partner"
	CustomerContacted CustomerType = "contacted"
)

func (t CustomerType) Valid() bool {
	switch t {
	case CustomerProspect, CustomerPartner, CustomerContacted:
		return true
	}
	return false
}
