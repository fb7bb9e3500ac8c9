package display

import (
	"encoding/json"
	"os"
)

// EnvCompactJSON switches JSON output to one line per document, for piping
// listings into line-oriented tools
const EnvCompactJSON = "QSF_COMPACT_JSON"

// MarshalJSON marshals JSON pretty-printed for humans, or compact when
// QSF_COMPACT_JSON is set
func MarshalJSON(v interface{}) ([]byte, error) {
	if os.Getenv(EnvCompactJSON) != "" {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}
