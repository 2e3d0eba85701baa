// Package txid mints and validates the dash-delimited transaction identifiers
// used across the tracing core, e.g. ORD-POS-230525142233-0001-A7F3.
//
// The trailing checksum is an integrity check against transcription errors,
// not a security control: distinct base strings can share the same 4-hex
// digest and that is acceptable for this format.
package txid

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tavolohq/resto-trace-backend/pkg/enums"
)

const (
	delimiter      = "-"
	fieldCount     = 5
	timestampForm  = "060102150405"
	timestampWidth = 12
	sequenceWidth  = 4
	checksumWidth  = 4
	sequenceMod    = 10000
)

// seq disambiguates identifiers minted in the same second. It is seeded from
// wall-clock milliseconds and advanced atomically so that concurrent callers
// inside one process never collide; uniqueness across processes stays
// best-effort, matching the 4-digit wire format.
var seq atomic.Uint64

func init() {
	seq.Store(uint64(time.Now().UnixMilli()))
}

// Parts holds the decoded fields of a transaction identifier.
type Parts struct {
	Type      enums.TransactionType
	Origin    enums.TransactionOrigin
	Timestamp string
	Sequence  string
	Checksum  string
}

// Generate mints an identifier for the given type and origin. When sequence
// is omitted it is derived from the per-process counter modulo 10000. It
// never fails; unknown enum values simply produce an identifier that will
// not validate.
func Generate(t enums.TransactionType, o enums.TransactionOrigin, sequence ...int) string {
	var n int
	if len(sequence) > 0 {
		n = sequence[0]
	} else {
		n = int(seq.Add(1) % sequenceMod)
	}
	if n < 0 {
		n = -n
	}
	base := strings.Join([]string{
		t.Code(),
		o.Code(),
		time.Now().UTC().Format(timestampForm),
		fmt.Sprintf("%0*d", sequenceWidth, n%sequenceMod),
	}, delimiter)
	return base + delimiter + checksum(base)
}

// Validate reports whether candidate is a structurally sound identifier with
// a matching checksum. It is a predicate: malformed input yields false, never
// a panic.
func Validate(candidate string) bool {
	_, err := Parse(candidate)
	return err == nil
}

// Parse splits and verifies an identifier, returning its decoded fields.
func Parse(candidate string) (Parts, error) {
	fields := strings.Split(candidate, delimiter)
	if len(fields) != fieldCount {
		return Parts{}, fmt.Errorf("expected %d fields, got %d", fieldCount, len(fields))
	}

	t, ok := enums.TransactionTypeFromCode(fields[0])
	if !ok {
		return Parts{}, fmt.Errorf("unknown type code %q", fields[0])
	}
	o, ok := enums.TransactionOriginFromCode(fields[1])
	if !ok {
		return Parts{}, fmt.Errorf("unknown origin code %q", fields[1])
	}
	if len(fields[2]) != timestampWidth || !digits(fields[2]) {
		return Parts{}, fmt.Errorf("malformed timestamp %q", fields[2])
	}
	if len(fields[3]) != sequenceWidth || !digits(fields[3]) {
		return Parts{}, fmt.Errorf("malformed sequence %q", fields[3])
	}
	if len(fields[4]) != checksumWidth {
		return Parts{}, fmt.Errorf("malformed checksum %q", fields[4])
	}

	base := strings.Join(fields[:4], delimiter)
	if checksum(base) != fields[4] {
		return Parts{}, fmt.Errorf("checksum mismatch")
	}

	return Parts{
		Type:      t,
		Origin:    o,
		Timestamp: fields[2],
		Sequence:  fields[3],
		Checksum:  fields[4],
	}, nil
}

// checksum returns the last 4 hex characters, uppercased, of the MD5 digest
// of the base string. Deterministic so Validate(Generate(...)) always holds.
func checksum(base string) string {
	sum := md5.Sum([]byte(base))
	full := strings.ToUpper(hex.EncodeToString(sum[:]))
	return full[len(full)-checksumWidth:]
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
