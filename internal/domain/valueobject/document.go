package valueobject

import (
	"fmt"
	"strings"

	"github.com/oksasatya/go-ddd-user-registry/pkg/apperrors"
)

// DocumentKind tags a national identity document.
type DocumentKind string

const (
	DocumentKindPersonal  DocumentKind = "CPF"
	DocumentKindCorporate DocumentKind = "CNPJ"
)

type documentRule struct {
	length int
	verify func(digits []int) bool
}

var documentRules = map[DocumentKind]documentRule{
	DocumentKindPersonal:  {length: 11, verify: verifyPersonal},
	DocumentKindCorporate: {length: 14, verify: verifyCorporate},
}

var (
	personalFirstWeights   = []int{10, 9, 8, 7, 6, 5, 4, 3, 2}
	personalSecondWeights  = []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}
	corporateFirstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	corporateSecondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// DocumentKinds lists the supported kinds in a stable order.
func DocumentKinds() []DocumentKind {
	return []DocumentKind{DocumentKindPersonal, DocumentKindCorporate}
}

// ParseDocumentKind maps the wire value ("CPF" or "CNPJ") to a kind.
func ParseDocumentKind(raw string) (DocumentKind, error) {
	k := DocumentKind(raw)
	if !k.Valid() {
		return "", apperrors.Validation("type_doc", "must be one of: CPF, CNPJ")
	}
	return k, nil
}

func (k DocumentKind) Valid() bool {
	_, ok := documentRules[k]
	return ok
}

// Length is the digit count required by the kind, 0 for unknown kinds.
func (k DocumentKind) Length() int {
	return documentRules[k].length
}

func (k DocumentKind) String() string { return string(k) }

// Document is a checksum-verified identity number stored without punctuation.
type Document struct {
	kind   DocumentKind
	number string
}

func NewDocument(kind DocumentKind, raw string) (Document, error) {
	rule, ok := documentRules[kind]
	if !ok {
		return Document{}, apperrors.Validation("type_doc", "must be one of: CPF, CNPJ")
	}

	clean := stripNonDigits(raw)
	if len(clean) != rule.length {
		return Document{}, apperrors.Validation("number_doc", fmt.Sprintf("%s must have %d digits", kind, rule.length))
	}

	digits := make([]int, len(clean))
	for i := 0; i < len(clean); i++ {
		digits[i] = int(clean[i] - '0')
	}
	if allSame(digits) || !rule.verify(digits) {
		return Document{}, apperrors.Validation("number_doc", "invalid document number")
	}

	return Document{kind: kind, number: clean}, nil
}

func (d Document) Kind() DocumentKind { return d.kind }

// Number returns the cleaned digit string.
func (d Document) Number() string { return d.number }

func (d Document) Equals(other Document) bool {
	return d.kind == other.kind && d.number == other.number
}

func verifyPersonal(d []int) bool {
	return checkDigit(d, personalFirstWeights) == d[9] &&
		checkDigit(d, personalSecondWeights) == d[10]
}

func verifyCorporate(d []int) bool {
	return checkDigit(d, corporateFirstWeights) == d[12] &&
		checkDigit(d, corporateSecondWeights) == d[13]
}

// checkDigit applies weights to the leading len(weights) digits, mod 11.
func checkDigit(digits, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += digits[i] * w
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

func allSame(digits []int) bool {
	for _, d := range digits[1:] {
		if d != digits[0] {
			return false
		}
	}
	return true
}

func stripNonDigits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
