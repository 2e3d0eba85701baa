package enums

import "fmt"

// TransactionOrigin identifies the surface that opened a transaction.
type TransactionOrigin string

const (
	TransactionOriginPOS      TransactionOrigin = "POS"
	TransactionOriginKDS      TransactionOrigin = "KDS"
	TransactionOriginApp      TransactionOrigin = "APP"
	TransactionOriginWeb      TransactionOrigin = "WEB"
	TransactionOriginTerminal TransactionOrigin = "TERMINAL"
	TransactionOriginAPI      TransactionOrigin = "API"
	TransactionOriginSystem   TransactionOrigin = "SYS"
)

var validTransactionOrigins = []TransactionOrigin{
	TransactionOriginPOS,
	TransactionOriginKDS,
	TransactionOriginApp,
	TransactionOriginWeb,
	TransactionOriginTerminal,
	TransactionOriginAPI,
	TransactionOriginSystem,
}

var transactionOriginCodes = map[TransactionOrigin]string{
	TransactionOriginPOS:      "POS",
	TransactionOriginKDS:      "KDS",
	TransactionOriginApp:      "APP",
	TransactionOriginWeb:      "WEB",
	TransactionOriginTerminal: "TERM",
	TransactionOriginAPI:      "API",
	TransactionOriginSystem:   "SYS",
}

// IsValid reports whether the value matches the canonical origin enum.
func (o TransactionOrigin) IsValid() bool {
	for _, candidate := range validTransactionOrigins {
		if candidate == o {
			return true
		}
	}
	return false
}

// Code returns the 3-4 letter short code embedded in transaction identifiers.
func (o TransactionOrigin) Code() string {
	return transactionOriginCodes[o]
}

// TransactionOrigins returns the canonical values in declaration order.
func TransactionOrigins() []TransactionOrigin {
	out := make([]TransactionOrigin, len(validTransactionOrigins))
	copy(out, validTransactionOrigins)
	return out
}

// ParseTransactionOrigin converts raw input into TransactionOrigin.
func ParseTransactionOrigin(value string) (TransactionOrigin, error) {
	for _, candidate := range validTransactionOrigins {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction origin %q", value)
}

// TransactionOriginFromCode resolves a short identifier code back to its origin.
func TransactionOriginFromCode(code string) (TransactionOrigin, bool) {
	for o, c := range transactionOriginCodes {
		if c == code {
			return o, true
		}
	}
	return "", false
}
