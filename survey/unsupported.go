package survey

import (
	"github.com/teranos/qsfdecode/errors"
	"github.com/teranos/qsfdecode/qsf"
)

// UnsupportedQuestion is a question of a type with no syntax rendering.
// Every generation call fails with errors.ErrUnsupported.
type UnsupportedQuestion struct {
	id, tag, qtype string
}

func newUnsupported(el *qsf.Element) *UnsupportedQuestion {
	p := el.Payload()
	return &UnsupportedQuestion{
		id:    el.QuestionID(),
		tag:   p.Get("DataExportTag").Str(),
		qtype: p.Get("QuestionType").Str(),
	}
}

func (q *UnsupportedQuestion) ID() string        { return q.id }
func (q *UnsupportedQuestion) ExportTag() string { return q.tag }
func (q *UnsupportedQuestion) Type() string      { return q.qtype }

func (q *UnsupportedQuestion) err(op string) error {
	return errors.NewUnsupportedError("%s: question type %q has no %s", q.id, q.qtype, op)
}

func (q *UnsupportedQuestion) DeclareVariables() (string, error) {
	return "", q.err("declarations")
}

func (q *UnsupportedQuestion) LabelVariables(bool, bool) (string, error) {
	return "", q.err("variable labels")
}

func (q *UnsupportedQuestion) LabelValues() (string, error) {
	return "", q.err("value labels")
}

func (q *UnsupportedQuestion) VariableNames() ([]string, error) {
	return nil, q.err("variables")
}

// MalformedQuestion stands in for a question whose payload could not be
// decoded. Every generation call returns the construction error, which
// matches errors.ErrMalformed.
type MalformedQuestion struct {
	id, tag, qtype string
	Err            error
}

func newMalformed(el *qsf.Element, err error) *MalformedQuestion {
	p := el.Payload()
	if !errors.IsMalformed(err) {
		err = errors.Mark(err, errors.ErrMalformed)
	}
	return &MalformedQuestion{
		id:    el.QuestionID(),
		tag:   p.Get("DataExportTag").Str(),
		qtype: p.Get("QuestionType").Str(),
		Err:   err,
	}
}

func (q *MalformedQuestion) ID() string        { return q.id }
func (q *MalformedQuestion) ExportTag() string { return q.tag }
func (q *MalformedQuestion) Type() string      { return q.qtype }

func (q *MalformedQuestion) DeclareVariables() (string, error)         { return "", q.Err }
func (q *MalformedQuestion) LabelVariables(bool, bool) (string, error) { return "", q.Err }
func (q *MalformedQuestion) LabelValues() (string, error)              { return "", q.Err }
func (q *MalformedQuestion) VariableNames() ([]string, error)          { return nil, q.Err }
