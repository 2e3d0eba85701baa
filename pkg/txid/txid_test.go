package txid

import (
	"regexp"
	"strings"
	"testing"

	"github.com/tavolohq/resto-trace-backend/pkg/enums"
)

var idPattern = regexp.MustCompile(`^ORD-POS-\d{12}-\d{4}-[0-9A-F]{4}$`)

func TestGenerateFormat(t *testing.T) {
	id := Generate(enums.TransactionTypeOrder, enums.TransactionOriginPOS)
	if !idPattern.MatchString(id) {
		t.Fatalf("identifier %q does not match expected format", id)
	}
}

func TestGenerateValidateRoundTrip(t *testing.T) {
	for _, tt := range enums.TransactionTypes() {
		for _, origin := range enums.TransactionOrigins() {
			id := Generate(tt, origin)
			if !Validate(id) {
				t.Fatalf("Validate(Generate(%s, %s)) = false for %q", tt, origin, id)
			}
		}
	}
}

func TestGenerateExplicitSequence(t *testing.T) {
	id := Generate(enums.TransactionTypePayment, enums.TransactionOriginWeb, 7)
	fields := strings.Split(id, "-")
	if fields[3] != "0007" {
		t.Fatalf("expected zero-padded sequence 0007, got %q", fields[3])
	}
	if !Validate(id) {
		t.Fatalf("explicit-sequence identifier %q should validate", id)
	}
}

func TestParseDecodesFields(t *testing.T) {
	id := Generate(enums.TransactionTypeDelivery, enums.TransactionOriginTerminal, 42)
	parts, err := Parse(id)
	if err != nil {
		t.Fatalf("Parse(%q): %v", id, err)
	}
	if parts.Type != enums.TransactionTypeDelivery {
		t.Fatalf("decoded type %q, want DELIVERY", parts.Type)
	}
	if parts.Origin != enums.TransactionOriginTerminal {
		t.Fatalf("decoded origin %q, want TERMINAL", parts.Origin)
	}
	if parts.Sequence != "0042" {
		t.Fatalf("decoded sequence %q, want 0042", parts.Sequence)
	}
}

func TestValidateTamperedChecksum(t *testing.T) {
	id := Generate(enums.TransactionTypeOrder, enums.TransactionOriginPOS, 1)
	last := id[len(id)-1]
	var flipped byte = '0'
	if last == '0' {
		flipped = '1'
	}
	tampered := id[:len(id)-1] + string(flipped)
	if Validate(tampered) {
		t.Fatalf("tampered identifier %q should not validate", tampered)
	}
}

func TestValidateStructuralRejection(t *testing.T) {
	valid := Generate(enums.TransactionTypeOrder, enums.TransactionOriginPOS, 1)
	fields := strings.Split(valid, "-")

	rebuild := func(mutate func([]string)) string {
		out := make([]string, len(fields))
		copy(out, fields)
		mutate(out)
		return strings.Join(out, "-")
	}

	cases := []struct {
		name      string
		candidate string
	}{
		{"empty string", ""},
		{"too few fields", "ORD-POS-230525142233-0001"},
		{"too many fields", valid + "-XX"},
		{"unknown type code", rebuild(func(f []string) { f[0] = "XXX" })},
		{"unknown origin code", rebuild(func(f []string) { f[1] = "ZZZ" })},
		{"short timestamp", rebuild(func(f []string) { f[2] = "2305251422" })},
		{"alpha timestamp", rebuild(func(f []string) { f[2] = "23052514223A" })},
		{"short sequence", rebuild(func(f []string) { f[3] = "001" })},
		{"alpha sequence", rebuild(func(f []string) { f[3] = "00A1" })},
		{"short checksum", rebuild(func(f []string) { f[4] = "A7F" })},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if Validate(tc.candidate) {
				t.Fatalf("Validate(%q) = true, want false", tc.candidate)
			}
		})
	}
}

func TestChecksumDeterministic(t *testing.T) {
	base := "ORD-POS-230525142233-0001"
	if checksum(base) != checksum(base) {
		t.Fatal("checksum must be deterministic for the same base string")
	}
	if len(checksum(base)) != checksumWidth {
		t.Fatalf("checksum width must be %d", checksumWidth)
	}
}
