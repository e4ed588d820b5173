package domain

import "github.com/shopspring/decimal"

type Customer struct {
	Key      string
	Name     string
	Discount decimal.Decimal
}

// UnknownCustomer is the fallback used when a key is missing from the directory.
func UnknownCustomer(key string) Customer {
	return Customer{Key: key, Name: key, Discount: decimal.Zero}
}
