package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Output formats
const (
	formatJSON    = "json"
	formatMsgpack = "msgpack"
)

// emptyPlaceholder is printed instead of an empty analysis result
const emptyPlaceholder = "No data available: the ticker list is empty or no overlapping price history was found."

// render writes v to w in the requested format. Empty results print a
// placeholder to msgW instead.
func render(w, msgW io.Writer, format string, v interface{}, empty bool) error {
	return renderOr(w, msgW, format, v, empty, emptyPlaceholder)
}

// renderOr is render with a caller-supplied placeholder
func renderOr(w, msgW io.Writer, format string, v interface{}, empty bool, placeholder string) error {
	if empty {
		_, err := fmt.Fprintln(msgW, placeholder)
		return err
	}

	switch format {
	case formatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown format %q (want json or msgpack)", format)
	}
}
