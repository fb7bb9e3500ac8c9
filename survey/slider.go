package survey

import (
	"github.com/teranos/qsfdecode/qsf"
	"github.com/teranos/qsfdecode/spss"
)

// SliderQuestion holds one numeric variable per slider. Slider positions are
// continuous, so there are no value labels.
type SliderQuestion struct {
	base
	Choices []MCChoice
}

func newSlider(el *qsf.Element, san *spss.Sanitizer) (*SliderQuestion, error) {
	b, err := newBase(el, san)
	if err != nil {
		return nil, err
	}
	choices, err := mcChoices(el, el.Payload())
	if err != nil {
		return nil, err
	}
	q := &SliderQuestion{base: b, Choices: choices}
	q.bind(q)
	return q, nil
}

func (q *SliderQuestion) sections(opts labelOptions) []section {
	stub := q.stub(opts)
	s := section{tag: q.tag}
	for _, c := range q.Choices {
		s.vars = append(s.vars, spss.Variable{
			Name:  q.name(q.tag + "_" + c.Key),
			Type:  spss.Numeric,
			Label: stub + c.Display,
		})
	}
	return []section{s}
}
