package survey

import (
	"github.com/teranos/qsfdecode/qsf"
	"github.com/teranos/qsfdecode/spss"
)

// MatrixQuestion is a single-answer grid: one numeric variable per statement
// holding the recode value of the chosen answer
type MatrixQuestion struct {
	base
	Statements []MatrixChoice
	Answers    []MatrixAnswer
}

// MultiAnswerMatrixQuestion is a grid where every statement-answer cell is its
// own indicator variable. Text-entry grids (Selector TE) use the same shape
// with string cells.
type MultiAnswerMatrixQuestion struct {
	MatrixQuestion
}

func buildMatrix(el *qsf.Element, san *spss.Sanitizer) (MatrixQuestion, error) {
	b, err := newBase(el, san)
	if err != nil {
		return MatrixQuestion{}, err
	}
	p := el.Payload()

	choices, err := items(p, "Choices")
	if err != nil {
		return MatrixQuestion{}, err
	}
	answers, err := matrixAnswers(el, p)
	if err != nil {
		return MatrixQuestion{}, err
	}

	return MatrixQuestion{
		base:    b,
		Answers: answers,
		Statements: matrixChoices(choiceSpec{
			choices:  choices,
			order:    p.Get("ChoiceOrder"),
			tagMap:   p.Get("ChoiceDataExportTags"),
			fallback: func(key string) string { return b.tag + "_" + key },
			element:  el,
		}),
	}, nil
}

func newMatrix(el *qsf.Element, san *spss.Sanitizer) (*MatrixQuestion, error) {
	m, err := buildMatrix(el, san)
	if err != nil {
		return nil, err
	}
	q := &m
	q.bind(q)
	return q, nil
}

func newMultiAnswerMatrix(el *qsf.Element, san *spss.Sanitizer) (*MultiAnswerMatrixQuestion, error) {
	m, err := buildMatrix(el, san)
	if err != nil {
		return nil, err
	}
	q := &MultiAnswerMatrixQuestion{MatrixQuestion: m}
	q.bind(q)
	return q, nil
}

func (q *MatrixQuestion) sections(opts labelOptions) []section {
	return []section{{
		tag:    q.tag,
		vars:   q.statementVariables(q.Statements, spss.Numeric, q.stub(opts)),
		values: q.statementValueLabels(q.Statements, q.Answers),
	}}
}

func (q *MultiAnswerMatrixQuestion) sections(opts labelOptions) []section {
	textCells := q.selector == "TE"
	return []section{{
		tag:    q.tag,
		vars:   q.cellVariables(q.Statements, q.Answers, textCells, q.stub(opts), opts.answerText),
		values: q.cellValueLabels(q.Statements, q.Answers, textCells),
	}}
}

// statementVariables lays out one variable per statement, each followed by
// its text variable
func (b *base) statementVariables(statements []MatrixChoice, typ spss.VarType, stub string) []spss.Variable {
	var vars []spss.Variable
	for _, st := range statements {
		vars = append(vars, spss.Variable{Name: b.name(st.ExportTag), Type: typ, Label: stub + st.Display})
		if st.TextEntry {
			vars = append(vars, b.textVariable(st, stub))
		}
	}
	return vars
}

// statementValueLabels gives every statement variable the shared answer scale
func (b *base) statementValueLabels(statements []MatrixChoice, answers []MatrixAnswer) []spss.ValueLabelSet {
	scale := make([]spss.ValueLabel, 0, len(answers))
	for _, a := range answers {
		scale = append(scale, spss.ValueLabel{Value: a.Recode, Label: a.Label})
	}
	sets := make([]spss.ValueLabelSet, 0, len(statements))
	for _, st := range statements {
		sets = append(sets, spss.ValueLabelSet{Variable: b.name(st.ExportTag), Labels: scale})
	}
	return sets
}

// cellVariables lays out statement x answer indicator variables, statement
// major, each statement followed by its text variable
func (b *base) cellVariables(statements []MatrixChoice, answers []MatrixAnswer, textCells bool, stub string, withAnswer bool) []spss.Variable {
	cellType := spss.Numeric
	if textCells {
		cellType = spss.String
	}
	var vars []spss.Variable
	for _, st := range statements {
		for _, a := range answers {
			label := stub + st.Display
			if withAnswer {
				label += " " + a.Label
			}
			vars = append(vars, spss.Variable{Name: b.cellName(st, a), Type: cellType, Label: label})
		}
		if st.TextEntry {
			vars = append(vars, b.textVariable(st, stub))
		}
	}
	return vars
}

// cellValueLabels labels each indicator cell 1 with its answer, in the same
// statement major order as cellVariables. Text cells hold free text and get none.
func (b *base) cellValueLabels(statements []MatrixChoice, answers []MatrixAnswer, textCells bool) []spss.ValueLabelSet {
	if textCells {
		return nil
	}
	var sets []spss.ValueLabelSet
	for _, st := range statements {
		for _, a := range answers {
			sets = append(sets, spss.ValueLabelSet{
				Variable: b.cellName(st, a),
				Labels:   []spss.ValueLabel{{Value: "1", Label: a.Label}},
			})
		}
	}
	return sets
}

func (b *base) cellName(st MatrixChoice, a MatrixAnswer) string {
	return b.name(st.ExportTag + "_" + a.Recode)
}

func (b *base) textVariable(st MatrixChoice, stub string) spss.Variable {
	return spss.Variable{
		Name:  b.name(st.ExportTag + "_TEXT"),
		Type:  spss.String,
		Label: stub + st.Display + " - Text",
	}
}
