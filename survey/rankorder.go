package survey

import (
	"strconv"

	"github.com/teranos/qsfdecode/qsf"
	"github.com/teranos/qsfdecode/spss"
)

// RankOrderQuestion holds one numeric variable per choice, storing the rank
// the respondent assigned to it
type RankOrderQuestion struct {
	base
	Choices []MCChoice
}

func newRankOrder(el *qsf.Element, san *spss.Sanitizer) (*RankOrderQuestion, error) {
	b, err := newBase(el, san)
	if err != nil {
		return nil, err
	}
	choices, err := mcChoices(el, el.Payload())
	if err != nil {
		return nil, err
	}
	q := &RankOrderQuestion{base: b, Choices: choices}
	q.bind(q)
	return q, nil
}

func (q *RankOrderQuestion) sections(opts labelOptions) []section {
	stub := q.stub(opts)

	// every rank variable shares the scale 1..N
	ranks := make([]spss.ValueLabel, 0, len(q.Choices))
	for i := range q.Choices {
		r := strconv.Itoa(i + 1)
		ranks = append(ranks, spss.ValueLabel{Value: r, Label: r})
	}

	s := section{tag: q.tag}
	for _, c := range q.Choices {
		name := q.name(q.tag + "_" + c.Recode)
		s.vars = append(s.vars, spss.Variable{Name: name, Type: spss.Numeric, Label: stub + c.Label})
		s.values = append(s.values, spss.ValueLabelSet{Variable: name, Labels: ranks})
	}
	return []section{s}
}
