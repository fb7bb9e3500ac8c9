package survey

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/qsfdecode/errors"
	qsftest "github.com/teranos/qsfdecode/internal/testing"
	"github.com/teranos/qsfdecode/qsf"
	"github.com/teranos/qsfdecode/spss"
)

type KV = qsftest.KV
type Obj = qsftest.Obj

func classify(t *testing.T, b *qsftest.SurveyBuilder) (*qsf.Document, []Question) {
	t.Helper()
	doc, err := qsf.Decode(b.Bytes())
	require.NoError(t, err)
	return doc, Classify(doc, spss.NewSanitizer(nil))
}

func only(t *testing.T, payload Obj) Question {
	t.Helper()
	_, qs := classify(t, qsftest.NewSurvey(t).Question(payload))
	require.Len(t, qs, 1)
	return qs[0]
}

func names(t *testing.T, q Question) []string {
	t.Helper()
	n, err := q.VariableNames()
	require.NoError(t, err)
	return n
}

func TestClassify_Variants(t *testing.T) {
	grid := []KV{{K: "Choices", V: qsftest.Choices("Row")}, {K: "Answers", V: qsftest.Choices("Col")}}
	choices := KV{K: "Choices", V: qsftest.Choices("Red", "Blue")}

	tests := []struct {
		name    string
		payload Obj
		want    Question
	}{
		{"matrix multiple answer", qsftest.Payload("QID1", "Q1", "Matrix", append(grid, KV{K: "Selector", V: "Likert"}, KV{K: "SubSelector", V: "MultipleAnswer"})...), &MultiAnswerMatrixQuestion{}},
		{"matrix without subselector", qsftest.Payload("QID1", "Q1", "Matrix", append(grid, KV{K: "Selector", V: "Likert"})...), &MatrixQuestion{}},
		{"matrix single answer", qsftest.Payload("QID1", "Q1", "Matrix", append(grid, KV{K: "SubSelector", V: "SingleAnswer"})...), &MatrixQuestion{}},
		{"matrix text entry", qsftest.Payload("QID1", "Q1", "Matrix", append(grid, KV{K: "Selector", V: "TE"}, KV{K: "SubSelector", V: "Short"})...), &MultiAnswerMatrixQuestion{}},
		{"mc single", qsftest.Payload("QID1", "Q1", "MC", choices, KV{K: "Selector", V: "SAVR"}), &MultiChoiceQuestion{}},
		{"mc multi", qsftest.Payload("QID1", "Q1", "MC", choices, KV{K: "Selector", V: "MAVR"}), &MultiAnswerMultiChoiceQuestion{}},
		{"mc dropdown multi", qsftest.Payload("QID1", "Q1", "MC", choices, KV{K: "Selector", V: "MSB"}), &MultiAnswerMultiChoiceQuestion{}},
		{"rank order", qsftest.Payload("QID1", "Q1", "RO", choices), &RankOrderQuestion{}},
		{"slider", qsftest.Payload("QID1", "Q1", "Slider", choices), &SliderQuestion{}},
		{"text entry", qsftest.Payload("QID1", "Q1", "TE"), &TextEntryQuestion{}},
		{"side by side", qsftest.Payload("QID1", "Q1", "SBS", choices, KV{K: "AdditionalQuestions", V: Obj{}}), &SideBySideQuestion{}},
		{"unknown type", qsftest.Payload("QID1", "Q1", "Timing"), &UnsupportedQuestion{}},
		{"embedded data", qsftest.Payload("QID1", "Q1", "DB"), &UnsupportedQuestion{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.IsType(t, tt.want, only(t, tt.payload))
		})
	}
}

func TestClassify_Malformed(t *testing.T) {
	q := only(t, qsftest.Payload("QID1", "Q1", "Matrix", KV{K: "Answers", V: qsftest.Choices("x")}))
	require.IsType(t, &MalformedQuestion{}, q)

	_, err := q.LabelValues()
	assert.True(t, errors.IsMalformed(err))
	assert.Contains(t, err.Error(), "Choices")
	assert.Equal(t, "Q1", q.ExportTag())
}

func TestClassify_Unsupported(t *testing.T) {
	q := only(t, qsftest.Payload("QID9", "Q9", "Meta"))

	_, err := q.DeclareVariables()
	assert.True(t, errors.IsUnsupported(err))
	_, err = q.VariableNames()
	assert.True(t, errors.IsUnsupported(err))
}

func TestSelectQuestions(t *testing.T) {
	for _, asArray := range []bool{false, true} {
		b := qsftest.NewSurvey(t).
			Question(qsftest.Payload("QID1", "Q1", "TE")).
			Question(qsftest.Payload("QID2", "Q2", "TE")).
			Question(qsftest.Payload("QID3", "Q3", "TE")).
			Question(qsftest.Payload("QID4", "Q4", "DB")).
			Question(qsftest.Payload("QID5", "Q5", "TE")).
			Block("B1", "Standard", "QID3", "QID4").
			Block("B2", "Standard", "QID2").
			Block("B3", "Default", "QID5").
			Block("BT", "Trash", "QID1").
			Flow(qsftest.FlowBranch(qsftest.FlowBlock("B1")), qsftest.Obj{{K: "Type", V: "Standard"}, {K: "ID", V: "B3"}})
		if asArray {
			b = b.BlocksAsArray()
		}

		doc, qs := classify(t, b)
		selected, err := SelectQuestions(doc, qs)
		require.NoError(t, err)

		var ids []string
		for _, q := range selected {
			ids = append(ids, q.ID())
		}
		assert.Equal(t, []string{"QID3", "QID5"}, ids, "blocks as array: %v", asArray)
	}
}

func TestSelectQuestions_TrashWins(t *testing.T) {
	doc, qs := classify(t, qsftest.NewSurvey(t).
		Question(qsftest.Payload("QID1", "Q1", "TE")).
		Question(qsftest.Payload("QID2", "Q2", "TE")).
		Block("B1", "Standard", "QID1", "QID2").
		Block("BT", "Trash", "QID1"))

	selected, err := SelectQuestions(doc, qs)
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "QID2", selected[0].ID())
}

func TestSelectQuestions_NoTrashBlock(t *testing.T) {
	doc, qs := classify(t, qsftest.NewSurvey(t).
		Question(qsftest.Payload("QID1", "Q1", "TE")).
		Block("B1", "Block", "QID1"))

	selected, err := SelectQuestions(doc, qs)
	require.NoError(t, err)
	assert.Len(t, selected, 1)
}

func TestSelectQuestions_MissingFlow(t *testing.T) {
	doc, err := qsf.Decode([]byte(`{"SurveyElements": [{"Element": "BL", "Payload": []}]}`))
	require.NoError(t, err)

	_, err = SelectQuestions(doc, nil)
	assert.True(t, errors.IsMalformed(err))
}

func TestMatrix_ChoiceOrder(t *testing.T) {
	q := only(t, qsftest.Payload("QID1", "Q1", "Matrix",
		KV{K: "Choices", V: qsftest.Choices("First", "Second")},
		KV{K: "ChoiceOrder", V: Obj{{K: "1", V: "2"}, {K: "2", V: "1"}}},
		KV{K: "Answers", V: qsftest.Choices("Agree", "Disagree")},
		KV{K: "AnswerOrder", V: []int{1, 2}},
	))

	assert.Equal(t, []string{"Q1_2", "Q1_1"}, names(t, q))

	labels, err := q.LabelVariables(false, false)
	require.NoError(t, err)
	assert.Equal(t, "/******Create Variable Labels for Q1******/.\n"+
		"VARIABLE LABELS\n"+
		"    Q1_2 'Second'\n"+
		"    Q1_1 'First'.\n", labels)

	values, err := q.LabelValues()
	require.NoError(t, err)
	assert.Equal(t, "/******Create Value Labels for Q1******/.\n"+
		"VALUE LABELS\n"+
		"    Q1_2\n"+
		"        1 'Agree'\n"+
		"        2 'Disagree'\n"+
		"    /Q1_1\n"+
		"        1 'Agree'\n"+
		"        2 'Disagree'.\n", values)
}

func TestMatrix_ChoiceOrderList(t *testing.T) {
	q := only(t, qsftest.Payload("QID1", "Q1", "Matrix",
		KV{K: "Choices", V: qsftest.Choices("a", "b", "c")},
		KV{K: "ChoiceOrder", V: []any{3, "1"}},
		KV{K: "Answers", V: qsftest.Choices("x")},
	))
	// unlisted items follow the listed ones
	assert.Equal(t, []string{"Q1_3", "Q1_1", "Q1_2"}, names(t, q))
}

func TestMatrix_ExportTags(t *testing.T) {
	q := only(t, qsftest.Payload("QID1", "Q1", "Matrix",
		KV{K: "Choices", V: qsftest.Choices("a", "b", "c", "d")},
		KV{K: "ChoiceDataExportTags", V: Obj{{K: "1", V: "Custom"}, {K: "2", V: ""}, {K: "3", V: " "}}},
		KV{K: "Answers", V: qsftest.Choices("x")},
	))
	assert.Equal(t, []string{"Custom", "A", "B", "Q1_4"}, names(t, q))

	q = only(t, qsftest.Payload("QID1", "Q1", "Matrix",
		KV{K: "Choices", V: qsftest.Choices("a")},
		KV{K: "ChoiceDataExportTags", V: false},
		KV{K: "Answers", V: qsftest.Choices("x")},
	))
	assert.Equal(t, []string{"Q1_1"}, names(t, q))
}

func TestMatrix_TextEntryStatement(t *testing.T) {
	payload := qsftest.Payload("QID4", "Q4", "Matrix",
		KV{K: "QuestionDescription", V: "Grid"},
		KV{K: "Choices", V: Obj{{K: "1", V: Obj{{K: "Display", V: "Row"}, {K: "TextEntry", V: "true"}}}}},
		KV{K: "Answers", V: qsftest.Choices("x", "y")},
		KV{K: "RecodeValues", V: Obj{{K: "1", V: "1.0"}, {K: "2", V: "5"}}},
	)

	single := only(t, payload)
	assert.Equal(t, []string{"Q4_1", "Q4_1_TEXT"}, names(t, single))
	decl, err := single.DeclareVariables()
	require.NoError(t, err)
	assert.Equal(t, "/******Create Variable Declarations for Q4******/.\n"+
		"NUMERIC Q4_1 (F40.0).\n"+
		"STRING Q4_1_TEXT (A2000).\n", decl)

	multi := only(t, payload.With(KV{K: "SubSelector", V: "MultipleAnswer"}))
	assert.Equal(t, []string{"Q4_1_1", "Q4_1_5", "Q4_1_TEXT"}, names(t, multi))

	labels, err := multi.LabelVariables(true, true)
	require.NoError(t, err)
	assert.Equal(t, "/******Create Variable Labels for Q4******/.\n"+
		"VARIABLE LABELS\n"+
		"    Q4_1_1 'Grid - Row x'\n"+
		"    Q4_1_5 'Grid - Row y'\n"+
		"    Q4_1_TEXT 'Grid - Row - Text'.\n", labels)

	values, err := multi.LabelValues()
	require.NoError(t, err)
	assert.Contains(t, values, "    Q4_1_1\n        1 'x'\n    /Q4_1_5\n        1 'y'.\n")
	assert.NotContains(t, values, "Q4_1_TEXT")
}

func TestMatrix_MultiAnswerValueLabelOrder(t *testing.T) {
	q := only(t, qsftest.Payload("QID4", "Q4", "Matrix",
		KV{K: "SubSelector", V: "MultipleAnswer"},
		KV{K: "Choices", V: qsftest.Choices("Row1", "Row2")},
		KV{K: "Answers", V: qsftest.Choices("x", "y")},
	))
	want := []string{"Q4_1_1", "Q4_1_2", "Q4_2_1", "Q4_2_2"}
	assert.Equal(t, want, names(t, q))

	m, ok := q.(*MultiAnswerMatrixQuestion)
	require.True(t, ok)
	var got []string
	for _, set := range m.ValueLabelSets() {
		got = append(got, set.Variable)
	}
	assert.Equal(t, want, got, "value labels follow the declaration order")
}

func TestMatrix_TextEntryGridHasNoValueLabels(t *testing.T) {
	q := only(t, qsftest.Payload("QID1", "Q1", "Matrix",
		KV{K: "Selector", V: "TE"},
		KV{K: "Choices", V: qsftest.Choices("Row")},
		KV{K: "Answers", V: qsftest.Choices("Col")},
	))
	decl, err := q.DeclareVariables()
	require.NoError(t, err)
	assert.Contains(t, decl, "STRING Q1_1_1 (A2000).")

	values, err := q.LabelValues()
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestMultiChoice_SingleAnswer(t *testing.T) {
	q := only(t, qsftest.Payload("QID3", "Q3", "MC",
		KV{K: "QuestionDescription", V: "Pick"},
		KV{K: "Selector", V: "SAVR"},
		KV{K: "Choices", V: Obj{
			{K: "1", V: Obj{{K: "Display", V: "Yes"}}},
			{K: "2", V: Obj{{K: "Display", V: "Other"}, {K: "TextEntry", V: "true"}}},
		}},
		KV{K: "RecodeValues", V: Obj{{K: "1", V: "5"}, {K: "2", V: "7.0"}}},
	))
	assert.Equal(t, []string{"Q3", "Q3_7_TEXT"}, names(t, q))

	labels, err := q.LabelVariables(false, false)
	require.NoError(t, err)
	assert.Contains(t, labels, "    Q3 'Pick - SelectedChoice'\n")
	assert.Contains(t, labels, "    Q3_7_TEXT 'Pick - TextEntryChoice - Text'.\n")

	values, err := q.LabelValues()
	require.NoError(t, err)
	assert.Equal(t, "/******Create Value Labels for Q3******/.\n"+
		"VALUE LABELS\n"+
		"    Q3\n"+
		"        5 'Yes'\n"+
		"        7 'Other'.\n", values)
}

func TestMultiChoice_MultiAnswerValueLabels(t *testing.T) {
	q := only(t, qsftest.Payload("QID2", "tag", "MC",
		KV{K: "Selector", V: "MAVR"},
		KV{K: "Choices", V: qsftest.Choices("Red", "Blue")},
		KV{K: "RecodeValues", V: Obj{{K: "1", V: "1"}, {K: "2", V: "2"}}},
	))
	ma, ok := q.(*MultiAnswerMultiChoiceQuestion)
	require.True(t, ok)

	assert.Equal(t, []spss.ValueLabelSet{
		{Variable: "tag_1", Labels: []spss.ValueLabel{{Value: "1", Label: "Red"}}},
		{Variable: "tag_2", Labels: []spss.ValueLabel{{Value: "1", Label: "Blue"}}},
	}, ma.ValueLabelSets())

	vars := ma.Variables()
	require.Len(t, vars, 2)
	assert.Equal(t, "tag", vars[0].Label)
}

func TestMultiChoice_MultiAnswerLabelsFollowAnswerText(t *testing.T) {
	q := only(t, qsftest.Payload("QID2", "tag", "MC",
		KV{K: "QuestionDescription", V: "Colors"},
		KV{K: "Selector", V: "MAVR"},
		KV{K: "Choices", V: qsftest.Choices("Red", "Blue")},
	))
	tests := []struct {
		name       string
		answerText bool
		want       string
	}{
		{"stem only", false, "    tag_1 'Colors'\n    tag_2 'Colors'.\n"},
		{"choice suffix", true, "    tag_1 'Colors Red'\n    tag_2 'Colors Blue'.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labels, err := q.LabelVariables(false, tt.answerText)
			require.NoError(t, err)
			assert.Equal(t, "/******Create Variable Labels for tag******/.\n"+
				"VARIABLE LABELS\n"+tt.want, labels)
		})
	}

	// value labels carry the choice regardless
	values, err := q.LabelValues()
	require.NoError(t, err)
	assert.Contains(t, values, "    tag_1\n        1 'Red'\n")
}

func TestMultiChoice_CustomLabelsAndPipes(t *testing.T) {
	_, qs := classify(t, qsftest.NewSurvey(t).
		Question(qsftest.Payload("QID1", "Q1", "TE", KV{K: "QuestionText", V: "Your name"})).
		Question(qsftest.Payload("QID2", "Q2", "MC",
			KV{K: "Selector", V: "SAVR"},
			KV{K: "Choices", V: qsftest.Choices("Hi ${q://QID1/QuestionText}", "<i>Bye</i>")},
			KV{K: "VariableNaming", V: Obj{{K: "2", V: "Farewell's"}}},
		)))
	mc, ok := qs[1].(*MultiChoiceQuestion)
	require.True(t, ok)

	require.Len(t, mc.Choices, 2)
	assert.Equal(t, "Hi Your name", mc.Choices[0].Label)
	assert.Equal(t, "Bye", mc.Choices[1].Display)
	assert.Equal(t, "Farewell''s", mc.Choices[1].Label)
}

func TestMultiChoice_NonNumericRecode(t *testing.T) {
	q := only(t, qsftest.Payload("QID1", "Q1", "MC",
		KV{K: "Choices", V: qsftest.Choices("a")},
		KV{K: "RecodeValues", V: Obj{{K: "1", V: "abc"}}},
	))
	_, err := q.VariableNames()
	assert.True(t, errors.IsMalformed(err))
}

func TestRankOrder(t *testing.T) {
	q := only(t, qsftest.Payload("QID5", "Q5", "RO",
		KV{K: "Choices", V: qsftest.Choices("A", "B", "C")},
		KV{K: "ChoiceOrder", V: []string{"3", "1", "2"}},
	))
	assert.Equal(t, []string{"Q5_3", "Q5_1", "Q5_2"}, names(t, q))

	ro := q.(*RankOrderQuestion)
	ranks := []spss.ValueLabel{{Value: "1", Label: "1"}, {Value: "2", Label: "2"}, {Value: "3", Label: "3"}}
	for _, set := range ro.ValueLabelSets() {
		assert.Equal(t, ranks, set.Labels, set.Variable)
	}

	labels, err := q.LabelVariables(true, false)
	require.NoError(t, err)
	assert.Contains(t, labels, "    Q5_3 'Q5 - C'\n")
}

func TestRankOrder_UnlistedChoicesLast(t *testing.T) {
	q := only(t, qsftest.Payload("QID5", "Q5", "RO",
		KV{K: "Choices", V: qsftest.Choices("A", "B", "C")},
		KV{K: "ChoiceOrder", V: []string{"2", "1"}},
	))
	assert.Equal(t, []string{"Q5_2", "Q5_1", "Q5_3"}, names(t, q))

	ro := q.(*RankOrderQuestion)
	require.Len(t, ro.ValueLabelSets(), 3)
	assert.Len(t, ro.ValueLabelSets()[2].Labels, 3)
}

func TestSlider(t *testing.T) {
	q := only(t, qsftest.Payload("QID6", "Q6", "Slider", KV{K: "Choices", V: qsftest.Choices("Left", "Right")}))
	assert.Equal(t, []string{"Q6_1", "Q6_2"}, names(t, q))

	values, err := q.LabelValues()
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestTextEntry_FormIsOneVariable(t *testing.T) {
	for _, selector := range []string{"SL", "ML", "FORM"} {
		t.Run(selector, func(t *testing.T) {
			q := only(t, qsftest.Payload("QID8", "Q8", "TE",
				KV{K: "QuestionDescription", V: "Contact"},
				KV{K: "Selector", V: selector},
				KV{K: "Choices", V: qsftest.Choices("Name", "Email")},
			))
			require.IsType(t, &TextEntryQuestion{}, q)
			assert.Equal(t, []string{"Q8"}, names(t, q))

			decl, err := q.DeclareVariables()
			require.NoError(t, err)
			assert.Equal(t, "/******Create Variable Declarations for Q8******/.\n"+
				"STRING Q8 (A2000).\n", decl)

			labels, err := q.LabelVariables(true, true)
			require.NoError(t, err)
			assert.Contains(t, labels, "    Q8 'Contact'.\n")
			assert.NotContains(t, labels, "Email")

			values, err := q.LabelValues()
			require.NoError(t, err)
			assert.Empty(t, values)
		})
	}
}

func TestSideBySide(t *testing.T) {
	q := only(t, qsftest.Payload("QID7", "Q7", "SBS",
		KV{K: "QuestionDescription", V: "Fruit"},
		KV{K: "Choices", V: qsftest.Choices("Apples", "Pears")},
		KV{K: "ChoiceOrder", V: []int{2, 1}},
		KV{K: "AdditionalQuestions", V: Obj{
			{K: "1", V: Obj{
				{K: "QuestionDescription", V: "Like"},
				{K: "Selector", V: "DL"},
				{K: "SubSelector", V: ""},
				{K: "Answers", V: qsftest.Choices("No", "Yes")},
				{K: "ChoiceDataExportTags", V: false},
			}},
			{K: "2", V: Obj{
				{K: "QuestionDescription", V: "Notes"},
				{K: "Selector", V: "TE"},
				{K: "Answers", V: qsftest.Choices("Why")},
				{K: "AnswerDataExportTag", V: "why"},
			}},
		}},
	))
	require.IsType(t, &SideBySideQuestion{}, q)
	assert.Equal(t, []string{"Q7_1_2_1", "Q7_1_1_1", "Q7_2_2_why_1", "Q7_2_1_why_1"}, names(t, q))

	decl, err := q.DeclareVariables()
	require.NoError(t, err)
	assert.Contains(t, decl, "/******Create Variable Declarations for Q7_1******/.\nNUMERIC Q7_1_2_1 (F40.0).\n")
	assert.Contains(t, decl, "/******Create Variable Declarations for Q7_2******/.\nSTRING Q7_2_2_why_1 (A2000).\n")

	labels, err := q.LabelVariables(true, false)
	require.NoError(t, err)
	assert.Contains(t, labels, "    Q7_1_2_1 'Fruit - Like - Pears'\n")
	assert.Contains(t, labels, "    Q7_2_1_why_1 'Fruit - Notes - Apples'.\n")

	values, err := q.LabelValues()
	require.NoError(t, err)
	assert.Contains(t, values, "for Q7_1******/.")
	assert.NotContains(t, values, "for Q7_2******/.")
	assert.Contains(t, values, "    Q7_1_2_1\n        1 'No'\n        2 'Yes'\n")
}

func TestUseTextOverride(t *testing.T) {
	q := only(t, qsftest.Payload("QID1", "Q1", "TE",
		KV{K: "QuestionText", V: "<b>Full</b> question text"},
		KV{K: "QuestionDescription", V: "Full quest"},
		KV{K: "Configuration", V: Obj{{K: "QuestionDescriptionOption", V: "UseText"}}},
	))
	labels, err := q.LabelVariables(false, false)
	require.NoError(t, err)
	assert.Contains(t, labels, "Q1 'Full question text'.")

	q = only(t, qsftest.Payload("QID1", "Q1", "TE",
		KV{K: "QuestionText", V: "<b>Full</b> question text"},
		KV{K: "QuestionDescription", V: "Full quest"},
		KV{K: "Configuration", V: Obj{{K: "QuestionDescriptionOption", V: "UseDescription"}}},
	))
	labels, err = q.LabelVariables(false, false)
	require.NoError(t, err)
	assert.Contains(t, labels, "Q1 'Full quest'.")
}

func TestTranslate_TextEntryEndToEnd(t *testing.T) {
	data := qsftest.NewSurvey(t).
		Question(qsftest.Payload("QID1", "Q1", "TE", KV{K: "QuestionDescription", V: "Favorite color?"})).
		Bytes()

	syntax, err := Translate(data, Options{IncludeDeclarations: true})
	require.NoError(t, err)
	assert.Equal(t, "/******Create Variable Declarations for Q1******/.\n"+
		"STRING Q1 (A2000).\n"+
		"/******Create Variable Labels for Q1******/.\n"+
		"VARIABLE LABELS\n"+
		"    Q1 'Favorite color?'.\n"+
		"\n", syntax.Text())
	assert.NotContains(t, syntax.Text(), "VALUE LABELS")
	assert.Equal(t, []string{"Q1"}, syntax.Variables())
}

func TestTranslate_BareDocument(t *testing.T) {
	data := qsftest.NewSurvey(t).
		Question(qsftest.Payload("QID1", "Q1", "TE")).
		Bare().
		Bytes()

	syntax, err := Translate(data, Options{})
	require.NoError(t, err)
	assert.Len(t, syntax.Blocks, 1)
}

func TestGenerate_IsolatesFailures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	data := qsftest.NewSurvey(t).
		Question(qsftest.Payload("QID1", "Broken", "Matrix")).
		Question(qsftest.Payload("QID2", "Timing", "Timing")).
		Question(qsftest.Payload("QID3", "Q3", "TE")).
		Bytes()

	syntax, err := Translate(data, Options{Logger: zap.New(core).Sugar()})
	require.NoError(t, err)

	require.Len(t, syntax.Blocks, 1)
	assert.Equal(t, "QID3", syntax.Blocks[0].QuestionID)

	require.Len(t, syntax.Failed, 1)
	assert.Equal(t, "Broken", syntax.Failed[0].ExportTag)
	assert.True(t, errors.IsMalformed(syntax.Failed[0].Err))

	require.Len(t, syntax.Skipped, 1)
	assert.True(t, errors.IsUnsupported(syntax.Skipped[0].Err))

	failures := logs.FilterMessage("Unable to write syntax for question").All()
	require.Len(t, failures, 1)
	assert.Equal(t, zapcore.WarnLevel, failures[0].Level)
	assert.Equal(t, "Broken", failures[0].ContextMap()["export_tag"])
	assert.Equal(t, 1, logs.FilterMessage("Skipping question without syntax rendering").Len())
}

func TestGenerate_Idempotent(t *testing.T) {
	_, qs := classify(t, qsftest.NewSurvey(t).
		Question(qsftest.Payload("QID1", "123", "TE")).
		Question(qsftest.Payload("QID2", "Q2", "Matrix",
			KV{K: "Choices", V: qsftest.Choices("a", "b")},
			KV{K: "Answers", V: qsftest.Choices("x", "y")},
			KV{K: "SubSelector", V: "MultipleAnswer"},
		)))

	opts := Options{IncludeDeclarations: true, IncludeQuestionText: true, IncludeAnswerText: true}
	first := Generate(qs, opts)
	second := Generate(qs, opts)
	assert.Equal(t, first.Text(), second.Text())
	assert.Contains(t, first.Text(), "STRING VAR_1 (A2000).")
	assert.NotContains(t, second.Text(), "VAR_2")
}

func TestGenerate_ReportsCollisions(t *testing.T) {
	blankTags := Obj{{K: "1", V: ""}}
	_, qs := classify(t, qsftest.NewSurvey(t).
		Question(qsftest.Payload("QID1", "Q1", "Matrix",
			KV{K: "Choices", V: qsftest.Choices("a")},
			KV{K: "ChoiceDataExportTags", V: blankTags},
			KV{K: "Answers", V: qsftest.Choices("x")})).
		Question(qsftest.Payload("QID2", "Q2", "Matrix",
			KV{K: "Choices", V: qsftest.Choices("a")},
			KV{K: "ChoiceDataExportTags", V: blankTags},
			KV{K: "Answers", V: qsftest.Choices("x")})))

	syntax := Generate(qs, Options{})
	require.Len(t, syntax.Collisions(), 1)
	assert.Equal(t, Collision{Name: "A", QuestionIDs: []string{"QID1", "QID2"}}, syntax.Collisions()[0])
	assert.Len(t, syntax.Blocks, 2)
}

func TestSyntax_WriteTo(t *testing.T) {
	data := qsftest.NewSurvey(t).
		Question(qsftest.Payload("QID1", "Q1", "TE")).
		Question(qsftest.Payload("QID2", "Q2", "TE")).
		Bytes()
	syntax, err := Translate(data, Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := syntax.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, syntax.Text(), buf.String())
}

func TestTranslate_Substitutions(t *testing.T) {
	data := qsftest.NewSurvey(t).
		Question(qsftest.Payload("QID1", "Q1 #", "TE")).
		Bytes()

	syntax, err := Translate(data, Options{Substitutions: map[string]string{"#": "num"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1_num"}, syntax.Variables())
}
