package emit

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Writer accumulates generated C++ text. Lines are indented with tabs and
// may carry a postfix, which macro bodies use for line continuations.
type Writer struct {
	buf     strings.Builder
	indent  int
	postfix string
}

// Line writes text verbatim, as several lines when it contains newlines.
func (w *Writer) Line(text string) {
	for _, l := range strings.Split(text, "\n") {
		if l != "" {
			w.buf.WriteString(strings.Repeat("\t", w.indent))
		}
		w.buf.WriteString(l)
		w.buf.WriteString(w.postfix)
		w.buf.WriteByte('\n')
	}
}

func (w *Writer) Linef(format string, args ...any) { w.Line(fmt.Sprintf(format, args...)) }

func (w *Writer) Blank() { w.Line("") }

// Indent writes body n levels deeper.
func (w *Writer) Indent(n int, body func()) {
	w.indent += n
	defer func() { w.indent -= n }()
	body()
}

// Postfix appends p to every line body writes, ahead of any outer postfix.
func (w *Writer) Postfix(p string, body func()) {
	saved := w.postfix
	w.postfix = p + saved
	defer func() { w.postfix = saved }()
	body()
}

// Block writes header, start, an indented body and end. An empty header is skipped.
func (w *Writer) Block(header, start, end string, body func()) {
	if header != "" {
		w.Line(header)
	}
	w.Line(start)
	w.Indent(1, body)
	w.Line(end)
}

func (w *Writer) Func(signature string, body func()) { w.Block(signature, "{", "}", body) }

// Namespace wraps body in a namespace block unless ns is the global namespace.
func (w *Writer) Namespace(ns string, body func()) {
	if ns == "" {
		body()
		return
	}
	w.Block("namespace "+ns, "{", "}", body)
}

// Include writes an #include with forward slashes.
func (w *Writer) Include(path string) {
	w.Linef(`#include "%s"`, strings.ReplaceAll(filepath.ToSlash(path), `\`, "/"))
}

func (w *Writer) String() string { return w.buf.String() }
