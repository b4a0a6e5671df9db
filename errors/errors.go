// Package errors is the error vocabulary of clwm, backed by
// github.com/cockroachdb/errors. Errors carry stack traces, and hints
// attached with WithHint travel up to the command line where Report prints
// them below the error itself.
//
// Sentinels are compared with Is. A custom message keeps its sentinel
// identity through Mark:
//
//	return errors.Mark(errors.Newf("the noun type %q already exists", name), ErrAlreadyExists)
package errors

import (
	"fmt"
	"io"
	"strings"

	crdb "github.com/cockroachdb/errors"

	"github.com/teranos/clwm/sym"
)

var (
	New   = crdb.New
	Newf  = crdb.Newf
	Wrap  = crdb.Wrap
	Wrapf = crdb.Wrapf
	Mark  = crdb.Mark
	Is    = crdb.Is
	IsAny = crdb.IsAny
	As    = crdb.As

	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	FlattenHints = crdb.FlattenHints
)

// GetStack returns the reportable stack trace attached to err, if any.
var GetStack = crdb.GetReportableStackTrace

// Report writes err for a terminal user: the message on one line marked with
// the failure glyph, then each distinct hint on its own "Hint:" line. Debug adds
// the full stack trace.
func Report(w io.Writer, err error, debug bool) {
	if err == nil {
		return
	}
	if debug {
		fmt.Fprintf(w, "%s Error: %+v\n", sym.Failure, err)
	} else {
		fmt.Fprintf(w, "%s Error: %s\n", sym.Failure, err)
	}
	for _, hint := range hints(err) {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}

func hints(err error) []string {
	flat := FlattenHints(err)
	if flat == "" {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	for _, h := range strings.Split(flat, "\n--\n") {
		h = strings.TrimSpace(h)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	return out
}
