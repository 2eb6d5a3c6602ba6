package tref

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dgallion1/tref/internal/forest"
	"github.com/dgallion1/tref/internal/statement"
)

// Serialize writes f as TREF text: a header per tree in forest order, then
// one line per reachable node in pre-order. Every line is classified again
// before it is written. It returns the number of lines written.
func Serialize[T any](f *forest.Forest[T], w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	s := &serializer{w: bw}

	for id, tree := range f.All() {
		if tree == nil {
			return s.abort(&SerializeError{Lines: s.lines, Statement: id, Message: "could not get tree from forest"})
		}
		header := statement.FormatTreeID(id)
		if st := statement.Classify(header); st.Kind != statement.TreeID || st.TreeID != id {
			return s.abort(&SerializeError{Lines: s.lines, Statement: header, Message: "could not classify tree id", Err: ErrMalformedStatement})
		}
		if err := s.writeLine(header); err != nil {
			return s.lines, err
		}

		for _, n := range tree.PreOrder() {
			content := tree.Dialect().Render(n.Content)
			line := statement.FormatNode(content, n.Depth)
			st := statement.Classify(line)
			if st.Kind != statement.Node || st.Depth != n.Depth || st.Content != content {
				return s.abort(&SerializeError{Lines: s.lines, Statement: line, Message: "could not classify node", Err: ErrMalformedStatement})
			}
			if err := s.writeLine(line); err != nil {
				return s.lines, err
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return s.lines, &SerializeError{Lines: s.lines, Message: "flush failed", Err: err}
	}
	return s.lines, nil
}

type serializer struct {
	w     *bufio.Writer
	lines int
}

// abort flushes the lines written so far, so the count in err matches what
// reached the sink, and returns err.
func (s *serializer) abort(err *SerializeError) (int, error) {
	if ferr := s.w.Flush(); ferr != nil {
		return s.lines, &SerializeError{Lines: s.lines, Statement: err.Statement, Message: "flush failed after: " + err.Message, Err: ferr}
	}
	return s.lines, err
}

func (s *serializer) writeLine(line string) error {
	if _, err := fmt.Fprintln(s.w, line); err != nil {
		return &SerializeError{Lines: s.lines, Statement: line, Message: "write failed", Err: err}
	}
	s.lines++
	return nil
}
