// pkg/entity/name.go
package entity

import (
	"strings"

	"github.com/finreg-data/sanctions-ingress/pkg/model"
	"github.com/finreg-data/sanctions-ingress/pkg/sanitize"
)

// Alias Type values that mark a row as carrying the subject name.
const (
	aliasTypePrimary          = "Primary name"
	aliasTypePrimaryVariation = "Primary name variation"
)

// ConstructName assembles the full name for one row from its component
// columns: Title followed by Name 1 through Name 6, sanitized, with
// empty parts skipped. All parts absent yields an absent name.
func ConstructName(rec model.RawRecord) model.Field {
	parts := make([]string, 0, 7)
	if t := sanitize.CleanField(rec.Title); t.Present() {
		parts = append(parts, t.Value())
	}
	for _, name := range rec.Names {
		if n := sanitize.CleanField(name); n.Present() {
			parts = append(parts, n.Value())
		}
	}
	if len(parts) == 0 {
		return model.AbsentField()
	}
	return model.NewField(strings.Join(parts, " "))
}

// Classification is the result of splitting a group's names into one
// primary and its alias variants.
type Classification struct {
	Primary model.Field
	Aliases []string

	PrimaryNonLatin model.Field
	AliasesNonLatin []string
}

// Classify selects the primary name for a group and collects the
// remaining distinct names as aliases.
//
// The primary is the first row flagged "Primary name"; failing that,
// the first "Primary name variation"; failing that, the first row in
// original order. Multiple rows claiming primary status are a tolerated
// anomaly resolved by the same first-wins rule. Aliases preserve
// first-seen order and dedupe case-sensitively after sanitization.
func Classify(group []model.CleanRecord) Classification {
	primaryRow := pickPrimaryRow(group)

	c := Classification{
		Primary:         primaryRow.ConstructedName,
		PrimaryNonLatin: primaryRow.NameNonLatin,
	}
	c.Aliases = collectAliases(group, c.Primary, func(r model.CleanRecord) model.Field {
		return r.ConstructedName
	})
	c.AliasesNonLatin = collectAliases(group, c.PrimaryNonLatin, func(r model.CleanRecord) model.Field {
		return r.NameNonLatin
	})
	return c
}

// pickPrimaryRow applies the primary-name selection rule. The group is
// never empty: grouping is derived from existing rows.
func pickPrimaryRow(group []model.CleanRecord) model.CleanRecord {
	for _, r := range group {
		if r.AliasType.Or("") == aliasTypePrimary {
			return r
		}
	}
	for _, r := range group {
		if r.AliasType.Or("") == aliasTypePrimaryVariation {
			return r
		}
	}
	return group[0]
}

// collectAliases gathers distinct names across the group, excluding the
// chosen primary, in first-seen order.
func collectAliases(group []model.CleanRecord, primary model.Field, name func(model.CleanRecord) model.Field) []string {
	seen := make(map[string]struct{}, len(group))
	if primary.Present() {
		seen[primary.Value()] = struct{}{}
	}

	var aliases []string
	for _, r := range group {
		n := name(r)
		if !n.Present() {
			continue
		}
		if _, dup := seen[n.Value()]; dup {
			continue
		}
		seen[n.Value()] = struct{}{}
		aliases = append(aliases, n.Value())
	}
	return aliases
}
