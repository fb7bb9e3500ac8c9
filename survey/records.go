package survey

import (
	"sort"
	"strings"

	"github.com/teranos/qsfdecode/errors"
	"github.com/teranos/qsfdecode/qsf"
)

// MatrixChoice is one statement (row) of a matrix or side-by-side column
type MatrixChoice struct {
	Key       string
	Display   string
	Order     int
	TextEntry bool
	// ExportTag is the raw variable name stem of the statement
	ExportTag string
}

// MatrixAnswer is one point of a matrix response scale
type MatrixAnswer struct {
	Key     string
	Display string
	Order   int
	Recode  string
	Label   string
}

// MCChoice is one choice of a multiple choice, rank order or slider question
type MCChoice struct {
	Key       string
	Display   string
	Order     int
	TextEntry bool
	Recode    string
	Label     string
}

// items returns the entries of an item map (Choices, Answers). The platform
// writes an empty list where a question has no items.
func items(owner *qsf.Value, field string) ([]qsf.Entry, error) {
	v := owner.Get(field)
	switch v.Kind() {
	case qsf.KindObject, qsf.KindArray:
		entries := v.Entries()
		for _, e := range entries {
			if e.Value.Object() == nil {
				return nil, errors.NewMalformedError("%s[%s] is %s, want object", field, e.Key, e.Value.Kind())
			}
		}
		return entries, nil
	case qsf.KindNull:
		return nil, errors.NewMalformedError("missing %s", field)
	default:
		return nil, errors.NewMalformedError("%s is %s, want object", field, v.Kind())
	}
}

// optionalItems is items for maps whose absence just means "none"
func optionalItems(owner *qsf.Value, field string) ([]qsf.Entry, error) {
	if owner.Get(field).IsNull() {
		return nil, nil
	}
	return items(owner, field)
}

type orderKey struct {
	ranked bool
	pos    float64
	idx    int
}

// inDisplayOrder sorts entries by an order field. A list gives each item key
// its index; an object maps item key to position. Items the order does not
// mention follow the ranked ones in map order.
func inDisplayOrder(entries []qsf.Entry, order *qsf.Value) []qsf.Entry {
	positions := make(map[string]float64)
	switch order.Kind() {
	case qsf.KindArray:
		for i, item := range order.Array() {
			if _, seen := positions[item.Str()]; !seen {
				positions[item.Str()] = float64(i)
			}
		}
	case qsf.KindObject:
		for i, e := range order.Entries() {
			if f, ok := e.Value.Float(); ok {
				positions[e.Key] = f
			} else {
				positions[e.Key] = float64(i)
			}
		}
	}

	keys := make([]orderKey, len(entries))
	for i, e := range entries {
		pos, ok := positions[e.Key]
		keys[i] = orderKey{ranked: ok, pos: pos, idx: i}
	}
	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if ka.ranked != kb.ranked {
			return ka.ranked
		}
		if ka.pos != kb.pos {
			return ka.pos < kb.pos
		}
		return ka.idx < kb.idx
	})
	sorted := make([]qsf.Entry, len(entries))
	for i, j := range idx {
		sorted[i] = entries[j]
	}
	return sorted
}

// exportTags resolves the per-item custom export tags. Without a tag map every
// item gets fallback(key). Blank entries are backfilled with sequential
// letters in item-map order; these are short and may collide, which the
// generation report flags.
func exportTags(tagMap *qsf.Value, entries []qsf.Entry, fallback func(key string) string) map[string]string {
	tags := make(map[string]string, len(entries))
	custom := tagMap.Object()
	if tagMap.Empty() || custom == nil {
		for _, e := range entries {
			tags[e.Key] = fallback(e.Key)
		}
		return tags
	}

	blank := 0
	for _, e := range entries {
		t := custom.Get(e.Key)
		switch {
		case !custom.Has(e.Key):
			tags[e.Key] = fallback(e.Key)
		case strings.TrimSpace(t.Str()) == "":
			tags[e.Key] = backfillTag(blank)
			blank++
		default:
			tags[e.Key] = t.Str()
		}
	}
	return tags
}

// backfillTag returns A..Z, then AA, AB, ...
func backfillTag(i int) string {
	s := ""
	for i >= 0 {
		s = string(rune('A'+i%26)) + s
		i = i/26 - 1
	}
	return s
}

// recode returns the normalized recode value of an item, defaulting to its key
func recode(recodes *qsf.Value, key string) (string, error) {
	v := recodes.Get(key)
	if v.Empty() {
		v = qsf.String(key)
	}
	f, ok := v.Float()
	if !ok {
		return "", errors.NewMalformedError("recode value %q of item %s is not numeric", v.Str(), key)
	}
	return qsf.FormatNumber(f), nil
}

// label returns the custom label of an item, defaulting to its display text
func label(el *qsf.Element, naming *qsf.Value, key, display string) string {
	if v := naming.Get(key); v.Kind() == qsf.KindString && v.Str() != "" {
		return el.Text(v.Str())
	}
	return el.Text(display)
}

// choiceSpec describes where the statement records of a matrix-like question
// come from
type choiceSpec struct {
	choices  []qsf.Entry
	order    *qsf.Value
	tagMap   *qsf.Value
	fallback func(key string) string
	suffix   string // appended to every tag (side-by-side column tag)
	element  *qsf.Element
}

func matrixChoices(spec choiceSpec) []MatrixChoice {
	tags := exportTags(spec.tagMap, spec.choices, spec.fallback)
	ordered := inDisplayOrder(spec.choices, spec.order)

	out := make([]MatrixChoice, 0, len(ordered))
	for i, e := range ordered {
		tag := tags[e.Key]
		if spec.suffix != "" {
			tag += "_" + spec.suffix
		}
		out = append(out, MatrixChoice{
			Key:       e.Key,
			Display:   spec.element.Text(e.Value.Get("Display").Str()),
			Order:     i,
			TextEntry: e.Value.Get("TextEntry").Truthy(),
			ExportTag: tag,
		})
	}
	return out
}

// matrixAnswers builds the response scale from an owner holding Answers,
// AnswerOrder, RecodeValues and VariableNaming
func matrixAnswers(el *qsf.Element, owner *qsf.Value) ([]MatrixAnswer, error) {
	entries, err := optionalItems(owner, "Answers")
	if err != nil {
		return nil, err
	}
	recodes := owner.Get("RecodeValues")
	naming := owner.Get("VariableNaming")

	out := make([]MatrixAnswer, 0, len(entries))
	for i, e := range inDisplayOrder(entries, owner.Get("AnswerOrder")) {
		rv, err := recode(recodes, e.Key)
		if err != nil {
			return nil, errors.Wrap(err, "Answers")
		}
		display := e.Value.Get("Display").Str()
		out = append(out, MatrixAnswer{
			Key:     e.Key,
			Display: el.Text(display),
			Order:   i,
			Recode:  rv,
			Label:   label(el, naming, e.Key, display),
		})
	}
	return out, nil
}

// mcChoices builds choice records from a payload holding Choices,
// ChoiceOrder, RecodeValues and VariableNaming
func mcChoices(el *qsf.Element, payload *qsf.Value) ([]MCChoice, error) {
	entries, err := items(payload, "Choices")
	if err != nil {
		return nil, err
	}
	recodes := payload.Get("RecodeValues")
	naming := payload.Get("VariableNaming")

	out := make([]MCChoice, 0, len(entries))
	for i, e := range inDisplayOrder(entries, payload.Get("ChoiceOrder")) {
		rv, err := recode(recodes, e.Key)
		if err != nil {
			return nil, errors.Wrap(err, "Choices")
		}
		display := e.Value.Get("Display").Str()
		out = append(out, MCChoice{
			Key:       e.Key,
			Display:   el.Text(display),
			Order:     i,
			TextEntry: e.Value.Get("TextEntry").Truthy(),
			Recode:    rv,
			Label:     label(el, naming, e.Key, display),
		})
	}
	return out, nil
}
