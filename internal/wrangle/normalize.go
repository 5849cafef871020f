package wrangle

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"wrangler/domain/table"
)

// NormalizeOptions selects the clean-up steps applied to category labels.
// Steps run in field order; Synonyms are matched after the other steps,
// against normalized keys.
type NormalizeOptions struct {
	Trim           bool
	CollapseSpaces bool
	CaseFold       bool
	StripAccents   bool
	Synonyms       map[string]string
}

// DefaultNormalizeOptions enables every step
func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{Trim: true, CollapseSpaces: true, CaseFold: true, StripAccents: true}
}

// NormalizeCategories cleans the text labels of the first column named
// column. Non-text cells are left as they are, and a label that normalizes
// to the empty string becomes missing.
func NormalizeCategories(t *table.Table, column string, opts NormalizeOptions) (*table.Table, error) {
	if err := requireTable(t, "normalize categories"); err != nil {
		return nil, err
	}
	src, err := requireColumn(t, column)
	if err != nil {
		return nil, err
	}

	n := newNormalizer(opts)
	out := src.Clone()
	for i, v := range out.Values {
		s, ok := v.AsText()
		if !ok {
			continue
		}
		label := n.apply(s)
		switch {
		case label == "":
			out.Values[i] = table.Missing()
		case v.Kind() == table.KindCategory:
			out.Values[i] = table.Category(label)
		default:
			out.Values[i] = table.Text(label)
		}
	}
	return t.Replace(out)
}

type normalizer struct {
	opts     NormalizeOptions
	fold     cases.Caser
	synonyms map[string]string
}

func newNormalizer(opts NormalizeOptions) *normalizer {
	n := &normalizer{opts: opts, fold: cases.Fold()}
	if len(opts.Synonyms) > 0 {
		n.synonyms = make(map[string]string, len(opts.Synonyms))
		for from, to := range opts.Synonyms {
			n.synonyms[n.clean(from)] = to
		}
	}
	return n
}

func (n *normalizer) apply(s string) string {
	s = n.clean(s)
	if to, ok := n.synonyms[s]; ok {
		return to
	}
	return s
}

func (n *normalizer) clean(s string) string {
	if n.opts.Trim {
		s = strings.TrimSpace(s)
	}
	if n.opts.CollapseSpaces {
		s = strings.Join(strings.Fields(s), " ")
	}
	if n.opts.CaseFold {
		s = n.fold.String(s)
	}
	if n.opts.StripAccents {
		s = stripAccents(s)
	}
	return s
}

// stripAccents decomposes s and drops combining marks
func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
