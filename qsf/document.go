package qsf

import (
	"regexp"

	"github.com/teranos/qsfdecode/errors"
)

// ElementKind tags an entry of the document's SurveyElements list
type ElementKind string

const (
	ElementQuestion ElementKind = "SQ" // survey question
	ElementBlocks   ElementKind = "BL" // block container
	ElementFlow     ElementKind = "FL" // survey flow
)

// Document is a decoded survey definition
type Document struct {
	// Entry is the SurveyEntry header (name, ID, owner); may be nil
	Entry    *Value
	Elements []*Element

	questions map[string]*Element
}

// Element is one entry of SurveyElements. It keeps a read-only reference to
// its document for cross-element lookups (piped text); the document owns it.
type Element struct {
	raw *Value
	doc *Document
}

// Decode parses a survey definition. The platform API wraps the definition in
// {"result": {...}}; files exported from the editor carry SurveyElements at the
// root. Both are accepted.
func Decode(data []byte) (*Document, error) {
	root, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return FromValue(root)
}

// FromValue builds a Document from an already parsed tree
func FromValue(root *Value) (*Document, error) {
	if root.Object() == nil {
		return nil, errors.NewMalformedError("survey document root is %s, want object", root.Kind())
	}

	survey := root
	if result := root.Get("result"); result.Object() != nil && root.Get("SurveyElements") == nil {
		survey = result
	}

	elements := survey.Get("SurveyElements")
	if elements.Kind() != KindArray {
		return nil, errors.WithHint(
			errors.NewMalformedError("SurveyElements is %s, want array", elements.Kind()),
			"expected a QSF survey definition (optionally wrapped in {\"result\": ...})",
		)
	}

	doc := &Document{
		Entry:     survey.Get("SurveyEntry"),
		Elements:  make([]*Element, 0, elements.Len()),
		questions: make(map[string]*Element),
	}
	for i, item := range elements.Array() {
		if item.Object() == nil {
			return nil, errors.NewMalformedError("SurveyElements[%d] is %s, want object", i, item.Kind())
		}
		el := &Element{raw: item, doc: doc}
		doc.Elements = append(doc.Elements, el)
		if el.Kind() == ElementQuestion {
			if qid := el.QuestionID(); qid != "" {
				doc.questions[qid] = el
			}
		}
	}
	return doc, nil
}

// Name returns the survey name from the entry header, if present
func (d *Document) Name() string {
	return d.Entry.Get("SurveyName").Str()
}

// ID returns the survey ID from the entry header, if present
func (d *Document) ID() string {
	return d.Entry.Get("SurveyID").Str()
}

// ElementsOf returns the elements tagged with kind, in document order
func (d *Document) ElementsOf(kind ElementKind) []*Element {
	var out []*Element
	for _, el := range d.Elements {
		if el.Kind() == kind {
			out = append(out, el)
		}
	}
	return out
}

// Single returns the only element of kind. A document carries exactly one
// block container and one flow; anything else is malformed.
func (d *Document) Single(kind ElementKind) (*Element, error) {
	found := d.ElementsOf(kind)
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return nil, errors.NewMalformedError("no %s element in survey", kind)
	default:
		return nil, errors.NewMalformedError("%d %s elements in survey, want 1", len(found), kind)
	}
}

// Question returns the SQ element with the given QuestionID, or nil
func (d *Document) Question(qid string) *Element {
	return d.questions[qid]
}

var pipeRE = regexp.MustCompile(`\$\{q://(QID[0-9]+)/([A-Za-z]+)\}`)

// ResolvePipes replaces piped-text references such as ${q://QID3/QuestionText}
// with the referenced question's payload property. References that cannot be
// resolved are left verbatim.
func (d *Document) ResolvePipes(s string) string {
	if d == nil || !pipeRE.MatchString(s) {
		return s
	}
	return pipeRE.ReplaceAllStringFunc(s, func(ref string) string {
		m := pipeRE.FindStringSubmatch(ref)
		el := d.Question(m[1])
		if el == nil {
			return ref
		}
		prop := el.Payload().Get(m[2])
		if prop == nil {
			prop = el.Get(m[2])
		}
		switch prop.Kind() {
		case KindString, KindNumber, KindBool:
			return prop.Str()
		default:
			return ref
		}
	})
}

// Kind returns the element tag (SQ, BL, FL, ...)
func (e *Element) Kind() ElementKind {
	return ElementKind(e.raw.Get("Element").Str())
}

// Get reads a top-level field of the element
func (e *Element) Get(key string) *Value {
	return e.raw.Get(key)
}

// Payload returns the element's Payload field
func (e *Element) Payload() *Value {
	return e.raw.Get("Payload")
}

// Document returns the owning document
func (e *Element) Document() *Document {
	return e.doc
}

// QuestionID returns Payload.QuestionID, falling back to PrimaryAttribute
func (e *Element) QuestionID() string {
	if qid := e.Payload().Get("QuestionID").Str(); qid != "" {
		return qid
	}
	return e.raw.Get("PrimaryAttribute").Str()
}

// Text resolves piped references in raw display text and cleans it for use
// inside a syntax literal
func (e *Element) Text(raw string) string {
	return CleanText(e.doc.ResolvePipes(raw))
}
