package survey

import (
	"github.com/teranos/qsfdecode/qsf"
	"github.com/teranos/qsfdecode/spss"
)

// multiAnswerSelectors are the Selector/SubSelector values that mark a
// multiple-answer rendering
var multiAnswerSelectors = map[string]bool{
	"MAVR":           true,
	"MAHR":           true,
	"MACOL":          true,
	"MSB":            true,
	"MultipleAnswer": true,
}

type constructor func(el *qsf.Element, san *spss.Sanitizer) (Question, error)

// variants maps QuestionType to its constructor. MC and Matrix pick their
// single- or multi-answer form from the selectors.
var variants = map[string]constructor{
	TypeMatrix: func(el *qsf.Element, san *spss.Sanitizer) (Question, error) {
		p := el.Payload()
		if multiAnswerSelectors[p.Get("SubSelector").Str()] || p.Get("Selector").Str() == "TE" {
			return wrap(newMultiAnswerMatrix(el, san))
		}
		return wrap(newMatrix(el, san))
	},
	TypeMC: func(el *qsf.Element, san *spss.Sanitizer) (Question, error) {
		if multiAnswerSelectors[el.Payload().Get("Selector").Str()] {
			return wrap(newMultiAnswerMultiChoice(el, san))
		}
		return wrap(newMultiChoice(el, san))
	},
	TypeRankOrder: func(el *qsf.Element, san *spss.Sanitizer) (Question, error) {
		return wrap(newRankOrder(el, san))
	},
	TypeSlider: func(el *qsf.Element, san *spss.Sanitizer) (Question, error) {
		return wrap(newSlider(el, san))
	},
	TypeTextEntry: func(el *qsf.Element, san *spss.Sanitizer) (Question, error) {
		return wrap(newTextEntry(el, san))
	},
	TypeSideBySide: func(el *qsf.Element, san *spss.Sanitizer) (Question, error) {
		return wrap(newSideBySide(el, san))
	},
}

// wrap converts a typed constructor result, keeping a nil pointer from
// turning into a non-nil interface
func wrap[T Question](q T, err error) (Question, error) {
	if err != nil {
		return nil, err
	}
	return q, nil
}

// Classify upgrades every SQ element of doc into its question variant, in
// document order. Unknown question types become UnsupportedQuestion; elements
// that fail to decode become MalformedQuestion. Neither stops the pass.
func Classify(doc *qsf.Document, san *spss.Sanitizer) []Question {
	var out []Question
	for _, el := range doc.ElementsOf(qsf.ElementQuestion) {
		out = append(out, ClassifyElement(el, san))
	}
	return out
}

// ClassifyElement upgrades a single SQ element
func ClassifyElement(el *qsf.Element, san *spss.Sanitizer) Question {
	build, ok := variants[el.Payload().Get("QuestionType").Str()]
	if !ok {
		return newUnsupported(el)
	}
	q, err := build(el, san)
	if err != nil {
		return newMalformed(el, err)
	}
	return q
}
