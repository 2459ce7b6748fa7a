// Package stream holds helpers for incremental text sequences.
//
// A Text is a pull-based sequence of chunks. It ends after the final chunk or
// after exactly one non-nil error. Consumers detach by breaking out of the
// range loop or by cancelling the context passed to Until.
package stream

import (
	"context"
	"iter"
	"strings"
)

// Text is a sequence of text chunks, optionally terminated by an error.
type Text = iter.Seq2[string, error]

// Of yields the given chunks in order.
func Of(chunks ...string) Text {
	return func(yield func(string, error) bool) {
		for _, c := range chunks {
			if !yield(c, nil) {
				return
			}
		}
	}
}

// Fail yields the given chunks followed by err.
func Fail(err error, chunks ...string) Text {
	return func(yield func(string, error) bool) {
		for _, c := range chunks {
			if !yield(c, nil) {
				return
			}
		}
		yield("", err)
	}
}

// Collect concatenates every chunk. On error the text received so far is
// returned together with the error.
func Collect(seq Text) (string, error) {
	var b strings.Builder
	for chunk, err := range seq {
		if err != nil {
			return b.String(), err
		}
		b.WriteString(chunk)
	}
	return b.String(), nil
}

// Until stops delivering chunks once ctx is done, ending with ctx.Err().
// The producer is released as soon as the consumer stops.
func Until(ctx context.Context, seq Text) Text {
	return func(yield func(string, error) bool) {
		if err := ctx.Err(); err != nil {
			yield("", err)
			return
		}
		for chunk, err := range seq {
			if cerr := ctx.Err(); cerr != nil {
				yield("", cerr)
				return
			}
			if !yield(chunk, err) || err != nil {
				return
			}
		}
	}
}

// MapErr rewrites the terminal error, leaving chunks untouched.
func MapErr(seq Text, fn func(error) error) Text {
	return func(yield func(string, error) bool) {
		for chunk, err := range seq {
			if err != nil {
				yield("", fn(err))
				return
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

// NonEmpty passes seq through and ends with errEmpty when it finishes
// without any non-blank chunk.
func NonEmpty(seq Text, errEmpty error) Text {
	return func(yield func(string, error) bool) {
		seen := false
		for chunk, err := range seq {
			if err != nil {
				yield("", err)
				return
			}
			if strings.TrimSpace(chunk) != "" {
				seen = true
			}
			if !yield(chunk, nil) {
				return
			}
		}
		if !seen {
			yield("", errEmpty)
		}
	}
}

// Tee calls fn with the complete text once the sequence finishes without error.
func Tee(seq Text, fn func(string)) Text {
	return func(yield func(string, error) bool) {
		var b strings.Builder
		for chunk, err := range seq {
			if err != nil {
				yield("", err)
				return
			}
			b.WriteString(chunk)
			if !yield(chunk, nil) {
				return
			}
		}
		fn(b.String())
	}
}
