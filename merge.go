package main

import (
	"bytes"
	"fmt"
	"io"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// mergePDFs combines the inputs, in order, into one PDF. Every page of
// every input survives in its original per-document order; the output
// page sequence is the concatenation of the inputs' page sequences.
//
// Inputs are checked one by one before any merging happens, so a bad
// buffer fails the whole call with a FileError naming it and no partial
// output is ever produced.
func mergePDFs(inputs []NamedBuffer) (*MergeResult, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	conf := model.NewDefaultConfiguration()

	readers := make([]io.ReadSeeker, len(inputs))
	pages := 0
	for i, in := range inputs {
		rs := bytes.NewReader(in.Data)
		if err := pdfapi.Validate(rs, conf); err != nil {
			return nil, &FileError{Name: in.Name, Index: i, Err: fmt.Errorf("%w: %v", ErrParse, err)}
		}
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("rewind %q: %w", in.Name, err)
		}
		n, err := pdfapi.PageCount(rs, conf)
		if err != nil {
			return nil, &FileError{Name: in.Name, Index: i, Err: fmt.Errorf("%w: %v", ErrParse, err)}
		}
		pages += n

		// fresh reader for the merge pass
		readers[i] = bytes.NewReader(in.Data)
	}

	var out bytes.Buffer
	if err := pdfapi.MergeRaw(readers, &out, false, conf); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	return &MergeResult{Data: out.Bytes(), Pages: pages}, nil
}
