package spss

import (
	"fmt"
	"strings"
)

// Variable formats
const (
	NumericFormat = "F40.0"
	StringFormat  = "A2000"
)

const indent = "    "

// Operation names the statement group a comment header introduces
type Operation string

const (
	OpDeclarations   Operation = "Variable Declarations"
	OpVariableLabels Operation = "Variable Labels"
	OpValueLabels    Operation = "Value Labels"
)

// VarType is the storage type of a declared variable
type VarType int

const (
	Numeric VarType = iota
	String
)

func (t VarType) String() string {
	if t == String {
		return "STRING"
	}
	return "NUMERIC"
}

// Format returns the fixed-width format used for declarations of this type
func (t VarType) Format() string {
	if t == String {
		return StringFormat
	}
	return NumericFormat
}

// Variable is one generated variable together with its label
type Variable struct {
	Name  string
	Type  VarType
	Label string
}

// ValueLabel maps one stored value to its label
type ValueLabel struct {
	Value string
	Label string
}

// ValueLabelSet is the value labels of a single variable
type ValueLabelSet struct {
	Variable string
	Labels   []ValueLabel
}

// Comment renders the header line placed before each statement group
func Comment(op Operation, exportTag string) string {
	return fmt.Sprintf("/******Create %s for %s******/.", op, exportTag)
}

// Declarations renders one declaration line per variable, preceded by the
// comment header. No variables, no output.
func Declarations(exportTag string, vars []Variable) string {
	if len(vars) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(Comment(OpDeclarations, exportTag))
	sb.WriteString("\n")
	for _, v := range vars {
		sb.WriteString(fmt.Sprintf("%s %s (%s).\n", v.Type, v.Name, v.Type.Format()))
	}
	return sb.String()
}

// VariableLabels renders a VARIABLE LABELS statement
func VariableLabels(exportTag string, vars []Variable) string {
	if len(vars) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(Comment(OpVariableLabels, exportTag))
	sb.WriteString("\nVARIABLE LABELS")
	for _, v := range vars {
		sb.WriteString(fmt.Sprintf("\n%s%s %s", indent, v.Name, Quote(v.Label)))
	}
	sb.WriteString(".\n")
	return sb.String()
}

// ValueLabels renders a VALUE LABELS statement. Sets without labels are
// dropped; if nothing remains the result is empty.
func ValueLabels(exportTag string, sets []ValueLabelSet) string {
	var sb strings.Builder
	n := 0
	for _, set := range sets {
		if len(set.Labels) == 0 {
			continue
		}
		if n == 0 {
			sb.WriteString(Comment(OpValueLabels, exportTag))
			sb.WriteString("\nVALUE LABELS\n")
			sb.WriteString(indent)
		} else {
			sb.WriteString("\n" + indent + "/")
		}
		sb.WriteString(set.Variable)
		for _, l := range set.Labels {
			sb.WriteString(fmt.Sprintf("\n%s%s%s %s", indent, indent, l.Value, Quote(l.Label)))
		}
		n++
	}
	if n == 0 {
		return ""
	}
	sb.WriteString(".\n")
	return sb.String()
}

// Quote wraps already-escaped label text in single quotes. Text is expected
// to have passed through qsf.CleanText, which doubles embedded quotes.
func Quote(s string) string {
	return "'" + s + "'"
}
