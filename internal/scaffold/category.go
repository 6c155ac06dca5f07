package scaffold

import (
	"strings"
)

// Category is a scaffold part family.
type Category string

// Part categories known to the engine.
const (
	CategoryUpright   Category = "upright"
	CategoryLedger    Category = "ledger"
	CategoryTransom   Category = "transom"
	CategoryBrace     Category = "brace"
	CategoryDeck      Category = "deck"
	CategoryToeBoard  Category = "toe_board"
	CategoryGuardrail Category = "guardrail"
	CategoryBaseJack  Category = "base_jack"
	CategoryShim      Category = "shim"
	CategoryOther     Category = "other"
)

type synonymEntry struct {
	category Category
	terms    []string
}

// synonyms is evaluated top to bottom and the first matching term wins.
// Order matters: "lisse de protection" is a ledger because ledger comes first.
var synonyms = []synonymEntry{
	{CategoryUpright, []string{"poteau", "montant", "standard", "upright"}},
	{CategoryLedger, []string{"moise", "lisse", "longitudinale", "ledger"}},
	{CategoryTransom, []string{"transverse", "entretoise", "traverse", "transom"}},
	{CategoryBrace, []string{"diagonale", "contrevent", "brace"}},
	{CategoryDeck, []string{"plancher", "plateau", "deck", "platform", "trappe"}},
	{CategoryToeBoard, []string{"plinthe", "toe board", "toeboard"}},
	{CategoryGuardrail, []string{"garde-corps", "gc", "guardrail", "lisse de protection"}},
	{CategoryBaseJack, []string{"embase", "pied", "base jack", "socle"}},
	{CategoryShim, []string{"cale", "shim", "bloc"}},
}

// InferCategory derives a category from a free-text item name.
func InferCategory(name string) Category {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return CategoryOther
	}
	for _, entry := range synonyms {
		for _, term := range entry.terms {
			if strings.Contains(lower, term) {
				return entry.category
			}
		}
	}
	return CategoryOther
}

// ResolveCategory returns the category of an item: the declared one when
// present, normalised through the synonym table, otherwise inferred from the
// name. Declared categories the table does not know are kept lower-cased.
func ResolveCategory(declared, name string) Category {
	d := strings.ToLower(strings.TrimSpace(declared))
	if d == "" {
		return InferCategory(name)
	}
	if known(Category(d)) {
		return Category(d)
	}
	if c := InferCategory(d); c != CategoryOther {
		return c
	}
	return Category(d)
}

func known(c Category) bool {
	for _, entry := range synonyms {
		if entry.category == c {
			return true
		}
	}
	return c == CategoryOther
}
