package enums

import "fmt"

// TransactionType classifies the business operation a trace covers.
type TransactionType string

const (
	TransactionTypeOrder     TransactionType = "ORDER"
	TransactionTypePayment   TransactionType = "PAYMENT"
	TransactionTypeInventory TransactionType = "INVENTORY"
	TransactionTypeCustomer  TransactionType = "CUSTOMER"
	TransactionTypeDelivery  TransactionType = "DELIVERY"
	TransactionTypeKitchen   TransactionType = "KITCHEN"
	TransactionTypeWaiter    TransactionType = "WAITER"
	TransactionTypeSystem    TransactionType = "SYSTEM"
)

var validTransactionTypes = []TransactionType{
	TransactionTypeOrder,
	TransactionTypePayment,
	TransactionTypeInventory,
	TransactionTypeCustomer,
	TransactionTypeDelivery,
	TransactionTypeKitchen,
	TransactionTypeWaiter,
	TransactionTypeSystem,
}

var transactionTypeCodes = map[TransactionType]string{
	TransactionTypeOrder:     "ORD",
	TransactionTypePayment:   "PAY",
	TransactionTypeInventory: "INV",
	TransactionTypeCustomer:  "CUS",
	TransactionTypeDelivery:  "DEL",
	TransactionTypeKitchen:   "KIT",
	TransactionTypeWaiter:    "WAI",
	TransactionTypeSystem:    "SYS",
}

// IsValid reports whether the value matches the canonical transaction type enum.
func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// Code returns the fixed-width short code embedded in transaction identifiers.
func (t TransactionType) Code() string {
	return transactionTypeCodes[t]
}

// TransactionTypes returns the canonical values in declaration order.
func TransactionTypes() []TransactionType {
	out := make([]TransactionType, len(validTransactionTypes))
	copy(out, validTransactionTypes)
	return out
}

// ParseTransactionType converts raw input into TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}

// TransactionTypeFromCode resolves a short identifier code back to its type.
func TransactionTypeFromCode(code string) (TransactionType, bool) {
	for t, c := range transactionTypeCodes {
		if c == code {
			return t, true
		}
	}
	return "", false
}
