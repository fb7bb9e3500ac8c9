package logger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// Everforest-like palette: muted, readable on dark terminals
const (
	colorFg       = "\x1b[38;5;223m"
	colorTime     = "\x1b[38;5;107m"
	colorKey      = "\x1b[38;5;245m"
	colorID       = "\x1b[38;5;109m"
	colorNumber   = "\x1b[38;5;108m"
	colorName     = "\x1b[38;5;208m"
	colorWarn     = "\x1b[38;5;179m"
	colorWarnBg   = "\x1b[48;5;58m"
	colorError    = "\x1b[38;5;167m"
	colorErrorBg  = "\x1b[48;5;52m"
	colorDebugTag = "\x1b[38;5;65m"
)

// idFields are rendered in the ID color so question references stand out
var idFields = map[string]bool{
	FieldSurveyID:   true,
	FieldQuestionID: true,
	FieldExportTag:  true,
	FieldVariable:   true,
	FieldBlockID:    true,
}

var bufferPool = buffer.NewPool()

// minimalEncoder implements a calm, compact console encoder.
// Format: "13:04:35  WARN  survey  Unable to write syntax for question  export_tag=Q12 error=..."
type minimalEncoder struct {
	zapcore.Encoder // remaining ObjectEncoder methods

	color   bool
	context []zapcore.Field
}

func newMinimalEncoder() *minimalEncoder {
	return newMinimalEncoderWithColor(true)
}

func newMinimalEncoderWithColor(color bool) *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		color:   color,
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	ctx := make([]zapcore.Field, len(enc.context))
	copy(ctx, enc.context)
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		color:   enc.color,
		context: ctx,
	}
}

// AddString and friends are reached through logger.With; keep those fields so
// they show up on every entry
func (enc *minimalEncoder) addContext(f zapcore.Field) {
	enc.context = append(enc.context, f)
}

func (enc *minimalEncoder) AddString(key, value string) {
	enc.addContext(zap.String(key, value))
}

func (enc *minimalEncoder) AddInt64(key string, value int64) {
	enc.addContext(zap.Int64(key, value))
}

func (enc *minimalEncoder) AddBool(key string, value bool) {
	enc.addContext(zap.Bool(key, value))
}

func (enc *minimalEncoder) AddUint64(key string, value uint64) {
	enc.addContext(zap.Uint64(key, value))
}

func (enc *minimalEncoder) AddFloat64(key string, value float64) {
	enc.addContext(zap.Float64(key, value))
}

func (enc *minimalEncoder) AddDuration(key string, value time.Duration) {
	enc.addContext(zap.Duration(key, value))
}

func (enc *minimalEncoder) AddTime(key string, value time.Time) {
	enc.addContext(zap.Time(key, value))
}

func (enc *minimalEncoder) AddByteString(key string, value []byte) {
	enc.addContext(zap.ByteString(key, value))
}

func (enc *minimalEncoder) AddArray(key string, value zapcore.ArrayMarshaler) error {
	enc.addContext(zap.Array(key, value))
	return nil
}

func (enc *minimalEncoder) AddObject(key string, value zapcore.ObjectMarshaler) error {
	enc.addContext(zap.Object(key, value))
	return nil
}

func (enc *minimalEncoder) AddReflected(key string, value interface{}) error {
	enc.addContext(zap.Reflect(key, value))
	return nil
}

func (enc *minimalEncoder) paint(color, s string) string {
	if !enc.color || s == "" {
		return s
	}
	return color + s + colorReset
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := bufferPool.Get()

	final.AppendString(enc.paint(colorTime, ent.Time.Format("15:04:05")))

	// Info is the quiet default; every other level is tagged
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(enc.levelString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(enc.paint(colorName, ent.LoggerName))
	}

	final.AppendString("  ")
	final.AppendString(enc.paint(colorFg, ent.Message))

	all := fields
	if len(enc.context) > 0 {
		all = append(append([]zapcore.Field{}, enc.context...), fields...)
	}
	if rendered := enc.renderFields(all); rendered != "" {
		final.AppendString("  ")
		final.AppendString(rendered)
	}

	final.AppendString("\n")
	return final, nil
}

func (enc *minimalEncoder) levelString(level zapcore.Level) string {
	if !enc.color {
		return level.CapitalString()
	}
	switch level {
	case zapcore.DebugLevel:
		return colorDebugTag + "DEBUG" + colorReset
	case zapcore.WarnLevel:
		return colorBold + colorWarnBg + colorWarn + "WARN" + colorReset
	default:
		return colorBold + colorErrorBg + colorError + level.CapitalString() + colorReset
	}
}

// renderFields writes every field as key=value. No field is ever dropped:
// values go through a map encoder so all zap field types are covered.
func (enc *minimalEncoder) renderFields(fields []zapcore.Field) string {
	var parts []string
	for _, field := range fields {
		m := zapcore.NewMapObjectEncoder()
		field.AddTo(m)

		keys := make([]string, 0, len(m.Fields))
		for k := range m.Fields {
			// stack traces belong in JSON output, not the console
			if k == field.Key+"Verbose" {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			parts = append(parts, enc.paint(colorKey, k+"=")+enc.formatValue(k, m.Fields[k]))
		}
	}
	return strings.Join(parts, " ")
}

func (enc *minimalEncoder) formatValue(key string, v interface{}) string {
	s := fmt.Sprintf("%v", v)
	switch {
	case idFields[key]:
		return enc.paint(colorID, s)
	case key == FieldDurationMS:
		return enc.paint(colorNumber, s) + "ms"
	}
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return enc.paint(colorNumber, s)
	}
	return s
}
