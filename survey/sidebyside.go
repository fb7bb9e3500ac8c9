package survey

import (
	"github.com/teranos/qsfdecode/errors"
	"github.com/teranos/qsfdecode/qsf"
	"github.com/teranos/qsfdecode/spss"
)

// SideBySideColumn is one sub-question of a side-by-side question. It shares
// the parent's statements and behaves like a matrix of its own shape.
type SideBySideColumn struct {
	Key         string
	ExportTag   string
	Description string
	MultiAnswer bool
	// TextEntry columns (Selector TE) hold free text in every cell
	TextEntry  bool
	Statements []MatrixChoice
	Answers    []MatrixAnswer
}

// SideBySideQuestion is a composite of columns, each generated under its own
// export tag
type SideBySideQuestion struct {
	base
	Columns []SideBySideColumn
}

func newSideBySide(el *qsf.Element, san *spss.Sanitizer) (*SideBySideQuestion, error) {
	b, err := newBase(el, san)
	if err != nil {
		return nil, err
	}
	p := el.Payload()

	additional := p.Get("AdditionalQuestions")
	if additional.Kind() != qsf.KindObject && additional.Kind() != qsf.KindArray {
		return nil, errors.NewMalformedError("AdditionalQuestions is %s, want object", additional.Kind())
	}

	q := &SideBySideQuestion{base: b}
	for _, e := range additional.Entries() {
		col, err := newColumn(el, b, e.Key, e.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "column %s", e.Key)
		}
		q.Columns = append(q.Columns, col)
	}
	q.bind(q)
	return q, nil
}

func newColumn(el *qsf.Element, parent base, key string, raw *qsf.Value) (SideBySideColumn, error) {
	if raw.Object() == nil {
		return SideBySideColumn{}, errors.NewMalformedError("column is %s, want object", raw.Kind())
	}

	owner := raw
	if raw.Get("Choices").IsNull() {
		owner = el.Payload()
	}
	choices, err := items(owner, "Choices")
	if err != nil {
		return SideBySideColumn{}, err
	}
	answers, err := matrixAnswers(el, raw)
	if err != nil {
		return SideBySideColumn{}, err
	}

	selector := raw.Get("Selector").Str()
	colTag := parent.tag + "_" + key
	suffix := raw.Get("AnswerDataExportTag").Str()
	if suffix == "" {
		suffix = key
	}

	return SideBySideColumn{
		Key:         key,
		ExportTag:   colTag,
		Description: parent.description + " - " + el.Text(raw.Get("QuestionDescription").Str()),
		MultiAnswer: multiAnswerSelectors[raw.Get("SubSelector").Str()] || selector == "TE",
		TextEntry:   selector == "TE",
		Answers:     answers,
		Statements: matrixChoices(choiceSpec{
			choices:  choices,
			order:    el.Payload().Get("ChoiceOrder"),
			tagMap:   raw.Get("ChoiceDataExportTags"),
			fallback: func(k string) string { return colTag + "_" + k },
			suffix:   suffix,
			element:  el,
		}),
	}, nil
}

func (q *SideBySideQuestion) sections(opts labelOptions) []section {
	out := make([]section, 0, len(q.Columns))
	for _, c := range q.Columns {
		stub := ""
		if opts.questionText {
			stub = c.Description + " - "
		}
		s := section{tag: c.ExportTag}
		if c.MultiAnswer {
			s.vars = q.cellVariables(c.Statements, c.Answers, c.TextEntry, stub, opts.answerText)
			s.values = q.cellValueLabels(c.Statements, c.Answers, c.TextEntry)
		} else {
			s.vars = q.statementVariables(c.Statements, spss.Numeric, stub)
			s.values = q.statementValueLabels(c.Statements, c.Answers)
		}
		out = append(out, s)
	}
	return out
}
