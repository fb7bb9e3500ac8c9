package survey

import (
	"github.com/teranos/qsfdecode/errors"
	"github.com/teranos/qsfdecode/qsf"
)

// blockTrash is the type of the block holding deleted questions
const blockTrash = "Trash"

// exportedBlockTypes are the block and flow node types whose questions are
// administered
var exportedBlockTypes = map[string]bool{
	"Standard": true,
	"Block":    true,
	"Default":  true,
}

// nestedFlowTypes are flow nodes whose children are walked
var nestedFlowTypes = map[string]bool{
	"Branch": true,
	"Group":  true,
}

// Selection is the outcome of filtering a survey's questions down to the
// ones respondents can actually reach
type Selection struct {
	// Trashed holds question IDs found in the Trash block
	Trashed map[string]bool
	// Reachable holds block IDs referenced by the survey flow
	Reachable map[string]bool
	// Included holds question IDs of reachable, exported blocks
	Included map[string]bool
}

// SelectQuestions keeps the questions that belong to a block reachable from
// the survey flow, dropping trashed questions and embedded-data pseudo
// questions (DB). Document order is preserved.
func SelectQuestions(doc *qsf.Document, questions []Question) ([]Question, error) {
	sel, err := Select(doc)
	if err != nil {
		return nil, err
	}
	var out []Question
	for _, q := range questions {
		if sel.Keeps(q) {
			out = append(out, q)
		}
	}
	return out, nil
}

// Select computes the trash, reachable-block and included-question sets of
// doc. The Trash block is left in place in the document; it is skipped
// rather than removed.
func Select(doc *qsf.Document) (*Selection, error) {
	blocks, err := doc.Single(qsf.ElementBlocks)
	if err != nil {
		return nil, err
	}
	flow, err := doc.Single(qsf.ElementFlow)
	if err != nil {
		return nil, err
	}

	sel := &Selection{
		Trashed:   make(map[string]bool),
		Reachable: make(map[string]bool),
		Included:  make(map[string]bool),
	}

	entries := blocks.Payload().Entries()
	for _, e := range entries {
		if e.Value.Get("Type").Str() == blockTrash {
			for _, qid := range blockQuestions(e.Value) {
				sel.Trashed[qid] = true
			}
			break
		}
	}

	root := flow.Payload().Get("Flow")
	if root.IsNull() {
		return nil, errors.NewMalformedError("survey flow has no Flow list")
	}
	walkFlow(root, sel.Reachable)

	for _, e := range entries {
		blk := e.Value
		if !exportedBlockTypes[blk.Get("Type").Str()] || !sel.Reachable[blk.Get("ID").Str()] {
			continue
		}
		for _, qid := range blockQuestions(blk) {
			sel.Included[qid] = true
		}
	}
	return sel, nil
}

// Keeps reports whether q survives selection
func (s *Selection) Keeps(q Question) bool {
	return s.Included[q.ID()] && !s.Trashed[q.ID()] && q.Type() != TypeDB
}

// walkFlow collects the block IDs referenced by a flow list, descending into
// branches and groups
func walkFlow(flow *qsf.Value, reachable map[string]bool) {
	for _, e := range flow.Entries() {
		node := e.Value
		typ := node.Get("Type").Str()
		switch {
		case nestedFlowTypes[typ]:
			walkFlow(node.Get("Flow"), reachable)
		case exportedBlockTypes[typ]:
			if id := node.Get("ID").Str(); id != "" {
				reachable[id] = true
			}
		}
	}
}

func blockQuestions(block *qsf.Value) []string {
	var ids []string
	for _, e := range block.Get("BlockElements").Entries() {
		if e.Value.Get("Type").Str() == "Question" {
			ids = append(ids, e.Value.Get("QuestionID").Str())
		}
	}
	return ids
}
