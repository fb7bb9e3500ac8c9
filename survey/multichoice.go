package survey

import (
	"github.com/teranos/qsfdecode/qsf"
	"github.com/teranos/qsfdecode/spss"
)

const (
	selectedChoiceSuffix = " - SelectedChoice"
	textEntrySuffix      = " - TextEntryChoice - Text"
)

// MultiChoiceQuestion is a single-select choice list: one numeric variable
// holding the recode value of the selected choice
type MultiChoiceQuestion struct {
	base
	Choices []MCChoice
}

// MultiAnswerMultiChoiceQuestion is a multi-select choice list: one indicator
// variable per choice
type MultiAnswerMultiChoiceQuestion struct {
	MultiChoiceQuestion
}

func buildMultiChoice(el *qsf.Element, san *spss.Sanitizer) (MultiChoiceQuestion, error) {
	b, err := newBase(el, san)
	if err != nil {
		return MultiChoiceQuestion{}, err
	}
	choices, err := mcChoices(el, el.Payload())
	if err != nil {
		return MultiChoiceQuestion{}, err
	}
	return MultiChoiceQuestion{base: b, Choices: choices}, nil
}

func newMultiChoice(el *qsf.Element, san *spss.Sanitizer) (*MultiChoiceQuestion, error) {
	m, err := buildMultiChoice(el, san)
	if err != nil {
		return nil, err
	}
	q := &m
	q.bind(q)
	return q, nil
}

func newMultiAnswerMultiChoice(el *qsf.Element, san *spss.Sanitizer) (*MultiAnswerMultiChoiceQuestion, error) {
	m, err := buildMultiChoice(el, san)
	if err != nil {
		return nil, err
	}
	q := &MultiAnswerMultiChoiceQuestion{MultiChoiceQuestion: m}
	q.bind(q)
	return q, nil
}

// HasTextEntry reports whether any choice collects free text
func (q *MultiChoiceQuestion) HasTextEntry() bool {
	for _, c := range q.Choices {
		if c.TextEntry {
			return true
		}
	}
	return false
}

// selectedStem is the label of a selection variable. Questions with a text
// entry choice distinguish the selection from the text.
func (q *MultiChoiceQuestion) selectedStem() string {
	if q.HasTextEntry() {
		return q.description + selectedChoiceSuffix
	}
	return q.description
}

func (q *MultiChoiceQuestion) choiceTextVariable(c MCChoice) spss.Variable {
	return spss.Variable{
		Name:  q.name(q.tag + "_" + c.Recode + "_TEXT"),
		Type:  spss.String,
		Label: q.description + textEntrySuffix,
	}
}

func (q *MultiChoiceQuestion) sections(labelOptions) []section {
	s := section{tag: q.tag}
	s.vars = append(s.vars, spss.Variable{Name: q.name(q.tag), Type: spss.Numeric, Label: q.selectedStem()})
	for _, c := range q.Choices {
		if c.TextEntry {
			s.vars = append(s.vars, q.choiceTextVariable(c))
		}
	}

	set := spss.ValueLabelSet{Variable: q.name(q.tag)}
	for _, c := range q.Choices {
		set.Labels = append(set.Labels, spss.ValueLabel{Value: c.Recode, Label: c.Label})
	}
	s.values = []spss.ValueLabelSet{set}
	return []section{s}
}

// sections labels each choice variable with the selection stem, suffixed with
// the choice label when answer text is requested
func (q *MultiAnswerMultiChoiceQuestion) sections(opts labelOptions) []section {
	s := section{tag: q.tag}
	stem := q.selectedStem()
	for _, c := range q.Choices {
		name := q.name(q.tag + "_" + c.Recode)
		label := stem
		if opts.answerText {
			label += " " + c.Label
		}
		s.vars = append(s.vars, spss.Variable{Name: name, Type: spss.Numeric, Label: label})
		if c.TextEntry {
			s.vars = append(s.vars, q.choiceTextVariable(c))
		}
		s.values = append(s.values, spss.ValueLabelSet{
			Variable: name,
			Labels:   []spss.ValueLabel{{Value: "1", Label: c.Label}},
		})
	}
	return []section{s}
}
