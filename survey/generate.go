package survey

import (
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/qsfdecode/errors"
	"github.com/teranos/qsfdecode/logger"
	"github.com/teranos/qsfdecode/qsf"
	"github.com/teranos/qsfdecode/spss"
)

// Options controls syntax generation
type Options struct {
	// IncludeDeclarations emits NUMERIC/STRING declarations before labels
	IncludeDeclarations bool
	// IncludeQuestionText prefixes variable labels with the question description
	IncludeQuestionText bool
	// IncludeAnswerText suffixes multi-answer variable labels with the answer label
	IncludeAnswerText bool
	// Substitutions are applied to variable names by Translate
	Substitutions map[string]string
	// Logger receives skip and failure reports; defaults to the global logger
	Logger *zap.SugaredLogger
}

func (o Options) logger() *zap.SugaredLogger {
	if o.Logger != nil {
		return o.Logger
	}
	return logger.Logger
}

// Block is the generated syntax of one question
type Block struct {
	QuestionID string
	ExportTag  string
	Text       string
	Variables  []string
}

// Failure records a question that produced no syntax
type Failure struct {
	QuestionID string
	ExportTag  string
	Err        error
}

// Collision is a variable name generated more than once
type Collision struct {
	Name string
	// QuestionIDs lists the questions declaring the name, one entry per occurrence
	QuestionIDs []string
}

// Syntax is the result of a generation run
type Syntax struct {
	Blocks []Block
	// Skipped holds questions without a rendering (unsupported types)
	Skipped []Failure
	// Failed holds questions whose generation failed
	Failed []Failure

	collisions []Collision
}

// Text concatenates the blocks in question order
func (s *Syntax) Text() string {
	var sb strings.Builder
	for _, b := range s.Blocks {
		sb.WriteString(b.Text)
	}
	return sb.String()
}

// WriteTo writes the syntax to w
func (s *Syntax) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, b := range s.Blocks {
		n, err := io.WriteString(w, b.Text)
		total += int64(n)
		if err != nil {
			return total, errors.Wrap(err, "failed to write syntax")
		}
	}
	return total, nil
}

// Collisions reports variable names generated by more than one variable.
// Output is not altered; the names are reported so callers can decide.
func (s *Syntax) Collisions() []Collision {
	return s.collisions
}

// Variables lists every generated variable name in output order
func (s *Syntax) Variables() []string {
	var names []string
	for _, b := range s.Blocks {
		names = append(names, b.Variables...)
	}
	return names
}

// Generate renders questions in order. A question whose type has no rendering
// is skipped; a question that fails is logged with its export tag and left
// out. Either way the remaining questions are still rendered, and a question
// is emitted completely or not at all.
func Generate(questions []Question, opts Options) *Syntax {
	log := opts.logger()
	out := &Syntax{}

	for _, q := range questions {
		block, err := render(q, opts)
		switch {
		case err == nil:
			out.Blocks = append(out.Blocks, block)
		case errors.IsUnsupported(err):
			log.Debugw("Skipping question without syntax rendering",
				logger.FieldQuestionID, q.ID(),
				logger.FieldExportTag, q.ExportTag(),
				logger.FieldQuestionType, q.Type())
			out.Skipped = append(out.Skipped, Failure{QuestionID: q.ID(), ExportTag: q.ExportTag(), Err: err})
		default:
			log.Warnw("Unable to write syntax for question",
				logger.FieldQuestionID, q.ID(),
				logger.FieldExportTag, q.ExportTag(),
				logger.FieldError, err)
			out.Failed = append(out.Failed, Failure{QuestionID: q.ID(), ExportTag: q.ExportTag(), Err: err})
		}
	}

	out.collisions = findCollisions(out.Blocks)
	for _, c := range out.collisions {
		log.Warnw("Variable name generated more than once",
			logger.FieldVariable, c.Name,
			logger.FieldCount, len(c.QuestionIDs),
			logger.FieldQuestionID, strings.Join(c.QuestionIDs, ","))
	}
	return out
}

func render(q Question, opts Options) (Block, error) {
	var sb strings.Builder
	if opts.IncludeDeclarations {
		decl, err := q.DeclareVariables()
		if err != nil {
			return Block{}, err
		}
		sb.WriteString(decl)
	}

	labels, err := q.LabelVariables(opts.IncludeQuestionText, opts.IncludeAnswerText)
	if err != nil {
		return Block{}, err
	}
	sb.WriteString(labels)

	values, err := q.LabelValues()
	if err != nil {
		return Block{}, err
	}
	sb.WriteString(values)
	sb.WriteString("\n")

	names, err := q.VariableNames()
	if err != nil {
		return Block{}, err
	}
	return Block{QuestionID: q.ID(), ExportTag: q.ExportTag(), Text: sb.String(), Variables: names}, nil
}

func findCollisions(blocks []Block) []Collision {
	// names are case-insensitive in the syntax
	owners := make(map[string][]string)
	first := make(map[string]string)
	var order []string
	for _, b := range blocks {
		for _, name := range b.Variables {
			key := strings.ToUpper(name)
			if _, seen := owners[key]; !seen {
				order = append(order, key)
				first[key] = name
			}
			owners[key] = append(owners[key], b.QuestionID)
		}
	}

	var out []Collision
	for _, key := range order {
		if ids := owners[key]; len(ids) > 1 {
			out = append(out, Collision{Name: first[key], QuestionIDs: ids})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Translate decodes a survey definition and renders the syntax of every
// question reachable from its flow
func Translate(data []byte, opts Options) (*Syntax, error) {
	doc, err := qsf.Decode(data)
	if err != nil {
		return nil, err
	}
	return TranslateDocument(doc, opts)
}

// TranslateDocument is Translate for an already decoded document
func TranslateDocument(doc *qsf.Document, opts Options) (*Syntax, error) {
	san := spss.NewSanitizer(opts.Substitutions)
	selected, err := SelectQuestions(doc, Classify(doc, san))
	if err != nil {
		return nil, errors.Wrap(err, "failed to select survey questions")
	}
	opts.logger().Infow("Translating survey",
		logger.FieldSurveyID, doc.ID(),
		logger.FieldSurveyName, doc.Name(),
		logger.FieldCount, len(selected))
	return Generate(selected, opts), nil
}
