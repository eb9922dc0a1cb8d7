// pkg/country/country.go
package country

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/finreg-data/sanctions-ingress/pkg/model"
	"github.com/finreg-data/sanctions-ingress/pkg/sanitize"
)

// extractPattern strips the list-style decorations the source wraps
// country names in: leading short parenthesized markers like "(1)" or
// "(a)", and trailing numbered continuation segments like " (2) Syria".
var extractPattern = regexp.MustCompile(`^(?:\(\w{1,3}\)\s*)*(.*?)(\s*\(\d+\).*)*$`)

// Normalizer maps raw country strings onto a canonical vocabulary.
// The synonym table is data, not logic: it is supplied at construction
// and can be extended through configuration without code changes.
type Normalizer struct {
	synonyms map[string]string // lowercased variant -> canonical name
	logger   *zap.Logger
}

// NewNormalizer builds a Normalizer from a variant->canonical table.
// Keys are matched case-insensitively. A nil logger disables logging.
func NewNormalizer(synonyms map[string]string, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	table := make(map[string]string, len(synonyms))
	for variant, canonical := range synonyms {
		table[strings.ToLower(strings.TrimSpace(variant))] = canonical
	}
	return &Normalizer{synonyms: table, logger: logger}
}

// Clean sanitizes a raw country string and strips the known
// non-informative decorations. It performs no synonym lookup.
func Clean(raw string) model.Field {
	f := sanitize.Clean(raw)
	if !f.Present() {
		return f
	}

	name := f.Value()
	if m := extractPattern.FindStringSubmatch(name); m != nil {
		name = strings.TrimSpace(m[1])
	}
	name = strings.TrimRight(name, "., ")
	if name == "" {
		return model.AbsentField()
	}
	return model.NewField(name)
}

// Normalize cleans a raw country value and maps it through the synonym
// table. No match returns the cleaned value unchanged: normalization
// never fabricates an unknown country. The operation is idempotent.
func (n *Normalizer) Normalize(f model.Field) model.Field {
	if !f.Present() {
		return model.AbsentField()
	}

	cleaned := Clean(f.Value())
	if !cleaned.Present() {
		return cleaned
	}

	if canonical, ok := n.synonyms[strings.ToLower(cleaned.Value())]; ok {
		if canonical != cleaned.Value() {
			n.logger.Debug("Applied country synonym",
				zap.String("variant", cleaned.Value()),
				zap.String("canonical", canonical))
		}
		return model.NewField(canonical)
	}
	return cleaned
}

// NormalizeSet normalizes every member of a value set, dropping absent
// results and deduplicating by exact string equality while preserving
// first-seen order.
func (n *Normalizer) NormalizeSet(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		norm := n.Normalize(model.NewField(v))
		if !norm.Present() {
			continue
		}
		if _, dup := seen[norm.Value()]; dup {
			continue
		}
		seen[norm.Value()] = struct{}{}
		out = append(out, norm.Value())
	}
	return out
}
