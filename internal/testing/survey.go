// Package testing provides survey document builders shared by package tests.
package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"
)

// KV is one key/value pair of an Obj
type KV struct {
	K string
	V any
}

// Obj is a JSON object that marshals with its keys in the given order.
// Key order carries meaning in survey documents (choice maps), so fixtures
// cannot use Go maps.
type Obj []KV

// MarshalJSON implements json.Marshaler
func (o Obj) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(kv.K)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(kv.V)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// With returns a copy of o with kvs appended, replacing existing keys in place
func (o Obj) With(kvs ...KV) Obj {
	out := make(Obj, len(o))
	copy(out, o)
	for _, kv := range kvs {
		replaced := false
		for i := range out {
			if out[i].K == kv.K {
				out[i].V = kv.V
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, kv)
		}
	}
	return out
}

// Payload starts a question payload
func Payload(qid, tag, qtype string, extra ...KV) Obj {
	p := Obj{
		{"QuestionID", qid},
		{"DataExportTag", tag},
		{"QuestionType", qtype},
		{"QuestionText", tag},
		{"QuestionDescription", tag},
	}
	return p.With(extra...)
}

// Choices builds an item map keyed "1", "2", ... in order
func Choices(displays ...string) Obj {
	out := make(Obj, 0, len(displays))
	for i, d := range displays {
		out = append(out, KV{fmt.Sprint(i + 1), Obj{{"Display", d}}})
	}
	return out
}

// FlowBlock is a flow node referencing a block
func FlowBlock(id string) Obj {
	return Obj{{"Type", "Block"}, {"ID", id}}
}

// FlowBranch is a flow node with nested children
func FlowBranch(children ...Obj) Obj {
	return Obj{{"Type", "Branch"}, {"Flow", children}}
}

type block struct {
	id, typ string
	qids    []string
}

// SurveyBuilder assembles a survey definition document
type SurveyBuilder struct {
	t         *testing.T
	questions []Obj
	blocks    []block
	flow      []Obj
	flowSet   bool
	bare      bool
	arrayBL   bool
}

// NewSurvey starts an empty survey
func NewSurvey(t *testing.T) *SurveyBuilder {
	t.Helper()
	return &SurveyBuilder{t: t}
}

// Question adds an SQ element with the given payload
func (b *SurveyBuilder) Question(payload Obj) *SurveyBuilder {
	b.questions = append(b.questions, payload)
	return b
}

// Block adds a block of the given type holding qids
func (b *SurveyBuilder) Block(id, typ string, qids ...string) *SurveyBuilder {
	b.blocks = append(b.blocks, block{id: id, typ: typ, qids: qids})
	return b
}

// Flow sets the survey flow
func (b *SurveyBuilder) Flow(nodes ...Obj) *SurveyBuilder {
	b.flow = nodes
	b.flowSet = true
	return b
}

// Bare emits the document without the {"result": ...} envelope
func (b *SurveyBuilder) Bare() *SurveyBuilder {
	b.bare = true
	return b
}

// BlocksAsArray emits the block container payload as a list instead of an
// index-keyed object
func (b *SurveyBuilder) BlocksAsArray() *SurveyBuilder {
	b.arrayBL = true
	return b
}

// Bytes renders the document. Without explicit blocks every question goes
// into one Default block; without an explicit flow every non-trash block is
// referenced.
func (b *SurveyBuilder) Bytes() []byte {
	b.t.Helper()

	blocks := b.blocks
	if len(blocks) == 0 {
		var qids []string
		for _, q := range b.questions {
			qids = append(qids, fmt.Sprint(lookup(q, "QuestionID")))
		}
		blocks = []block{{id: "BL_default", typ: "Default", qids: qids}}
	}

	flow := append([]Obj{}, b.flow...)
	if !b.flowSet {
		for _, blk := range blocks {
			if blk.typ != "Trash" {
				flow = append(flow, FlowBlock(blk.id))
			}
		}
	}

	var blockItems []Obj
	for _, blk := range blocks {
		elems := []Obj{}
		for _, qid := range blk.qids {
			elems = append(elems, Obj{{"Type", "Question"}, {"QuestionID", qid}})
		}
		blockItems = append(blockItems, Obj{
			{"Type", blk.typ},
			{"Description", blk.id},
			{"ID", blk.id},
			{"BlockElements", elems},
		})
	}
	var blPayload any = blockItems
	if !b.arrayBL {
		keyed := make(Obj, 0, len(blockItems))
		for i, item := range blockItems {
			keyed = append(keyed, KV{fmt.Sprint(i), item})
		}
		blPayload = keyed
	}

	elements := []Obj{
		{{"SurveyID", "SV_test"}, {"Element", "BL"}, {"PrimaryAttribute", "Survey Blocks"}, {"Payload", blPayload}},
		{{"SurveyID", "SV_test"}, {"Element", "FL"}, {"PrimaryAttribute", "Survey Flow"},
			{"Payload", Obj{{"Type", "Root"}, {"FlowID", "FL_1"}, {"Flow", flow}}}},
	}
	for _, q := range b.questions {
		elements = append(elements, Obj{
			{"SurveyID", "SV_test"},
			{"Element", "SQ"},
			{"PrimaryAttribute", lookup(q, "QuestionID")},
			{"Payload", q},
		})
	}

	survey := Obj{
		{"SurveyEntry", Obj{{"SurveyID", "SV_test"}, {"SurveyName", "Test survey"}}},
		{"SurveyElements", elements},
	}
	var doc any = Obj{{"result", survey}}
	if b.bare {
		doc = survey
	}

	data, err := json.Marshal(doc)
	if err != nil {
		b.t.Fatalf("Failed to render survey fixture: %v", err)
	}
	return data
}

func lookup(o Obj, key string) any {
	for _, kv := range o {
		if kv.K == key {
			return kv.V
		}
	}
	return nil
}
