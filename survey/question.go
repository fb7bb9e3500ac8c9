// Package survey classifies decoded survey questions into their variants and
// generates syntax for them.
//
// Every variant is built once from its SQ element: choice and answer records
// are ordered, labels cleaned and variable names sanitized at construction, so
// generation is a pure function of the question and can be repeated with
// byte-identical results.
package survey

import (
	"github.com/teranos/qsfdecode/errors"
	"github.com/teranos/qsfdecode/qsf"
	"github.com/teranos/qsfdecode/spss"
)

// Question is one classified survey question
type Question interface {
	// ID is the platform QuestionID (QID...)
	ID() string
	// ExportTag is the DataExportTag that generated names derive from
	ExportTag() string
	// Type is the raw QuestionType
	Type() string

	DeclareVariables() (string, error)
	LabelVariables(includeQuestionText, includeAnswerText bool) (string, error)
	LabelValues() (string, error)
	VariableNames() ([]string, error)
}

// Question types
const (
	TypeMatrix     = "Matrix"
	TypeMC         = "MC"
	TypeRankOrder  = "RO"
	TypeSlider     = "Slider"
	TypeTextEntry  = "TE"
	TypeSideBySide = "SBS"
	TypeDB         = "DB"
)

// labelOptions controls how variable labels are composed
type labelOptions struct {
	questionText bool
	answerText   bool
}

// section is a group of variables sharing one comment header.
// Side-by-side questions produce one section per column.
type section struct {
	tag    string
	vars   []spss.Variable
	values []spss.ValueLabelSet
}

// layout is implemented by every generating variant
type layout interface {
	sections(opts labelOptions) []section
}

// base carries the fields all variants share and implements Question on top
// of the variant's layout
type base struct {
	id          string
	tag         string
	qtype       string
	selector    string
	subSelector string
	description string

	element   *qsf.Element
	layout    layout
	sanitizer *spss.Sanitizer
	names     map[string]string
}

func newBase(el *qsf.Element, san *spss.Sanitizer) (base, error) {
	p := el.Payload()
	if p.Object() == nil {
		return base{}, errors.NewMalformedError("question %s: Payload is %s, want object", el.QuestionID(), p.Kind())
	}

	b := base{
		id:          el.QuestionID(),
		tag:         p.Get("DataExportTag").Str(),
		qtype:       p.Get("QuestionType").Str(),
		selector:    p.Get("Selector").Str(),
		subSelector: p.Get("SubSelector").Str(),
		element:     el,
		sanitizer:   san,
		names:       make(map[string]string),
	}
	if b.tag == "" {
		return b, errors.NewMalformedError("question %s: missing DataExportTag", b.id)
	}

	b.description = el.Text(p.Get("QuestionDescription").Str())

	// The platform truncates descriptions; questions configured to label by
	// text use the full question text instead
	if p.Path("Configuration", "QuestionDescriptionOption").Str() == "UseText" {
		if text := el.Text(p.Get("QuestionText").Str()); text != b.description {
			b.description = text
		}
	}
	return b, nil
}

// bind attaches the variant and resolves every variable name it generates.
// Names only depend on construction state, so after bind the name table is
// read-only and generation never touches the sanitizer counter again.
func (b *base) bind(l layout) {
	b.layout = l
	b.layout.sections(labelOptions{})
}

// name returns the sanitized form of a raw variable name
func (b *base) name(raw string) string {
	if n, ok := b.names[raw]; ok {
		return n
	}
	n := b.sanitizer.Sanitize(raw)
	b.names[raw] = n
	return n
}

func (b *base) ID() string        { return b.id }
func (b *base) ExportTag() string { return b.tag }
func (b *base) Type() string      { return b.qtype }

// stub is the optional question-description prefix of variable labels
func (b *base) stub(opts labelOptions) string {
	if !opts.questionText {
		return ""
	}
	return b.description + " - "
}

func (b *base) DeclareVariables() (string, error) {
	var out string
	for _, s := range b.layout.sections(labelOptions{}) {
		out += spss.Declarations(s.tag, s.vars)
	}
	return out, nil
}

func (b *base) LabelVariables(includeQuestionText, includeAnswerText bool) (string, error) {
	var out string
	opts := labelOptions{questionText: includeQuestionText, answerText: includeAnswerText}
	for _, s := range b.layout.sections(opts) {
		out += spss.VariableLabels(s.tag, s.vars)
	}
	return out, nil
}

func (b *base) LabelValues() (string, error) {
	var out string
	for _, s := range b.layout.sections(labelOptions{}) {
		out += spss.ValueLabels(s.tag, s.values)
	}
	return out, nil
}

func (b *base) VariableNames() ([]string, error) {
	var names []string
	for _, s := range b.layout.sections(labelOptions{}) {
		for _, v := range s.vars {
			names = append(names, v.Name)
		}
	}
	return names, nil
}

// Variables returns the generated variables with their default labels
func (b *base) Variables() []spss.Variable {
	var vars []spss.Variable
	for _, s := range b.layout.sections(labelOptions{}) {
		vars = append(vars, s.vars...)
	}
	return vars
}

// ValueLabelSets returns the value labels grouped by variable
func (b *base) ValueLabelSets() []spss.ValueLabelSet {
	var sets []spss.ValueLabelSet
	for _, s := range b.layout.sections(labelOptions{}) {
		sets = append(sets, s.values...)
	}
	return sets
}
