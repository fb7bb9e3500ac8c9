package survey

import (
	"github.com/teranos/qsfdecode/qsf"
	"github.com/teranos/qsfdecode/spss"
)

// TextEntryQuestion collects free text in a single string variable named after
// the export tag, whatever the selector. No value labels.
type TextEntryQuestion struct {
	base
}

func newTextEntry(el *qsf.Element, san *spss.Sanitizer) (*TextEntryQuestion, error) {
	b, err := newBase(el, san)
	if err != nil {
		return nil, err
	}
	q := &TextEntryQuestion{base: b}
	q.bind(q)
	return q, nil
}

func (q *TextEntryQuestion) sections(labelOptions) []section {
	return []section{{
		tag:  q.tag,
		vars: []spss.Variable{{Name: q.name(q.tag), Type: spss.String, Label: q.description}},
	}}
}
