package portal

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Stringable normalises free-form identifiers, such as tenant and document
// slugs, before they reach queries or comparisons.
type Stringable struct {
	value string
}

func NewStringable(value string) *Stringable {
	return &Stringable{
		value: strings.TrimSpace(value),
	}
}

// ToLower folds the value with the x/text caser so slugs typed with
// non-ASCII letters still normalise to a single canonical form.
func (s Stringable) ToLower() string {
	caser := cases.Lower(language.English)

	return strings.TrimSpace(caser.String(s.value))
}
