package seed

// ProgressFunc receives the data type of the stage reporting progress.
type ProgressFunc func(dataType string)

// Progress wraps an optional ProgressFunc. The zero value is a no-op.
//
// Stages call Update at least once when they finish and, for large inputs,
// every configured number of items. Callers must not rely on per-item calls.
type Progress struct {
	fn ProgressFunc
}

// NewProgress wraps fn, which may be nil.
func NewProgress(fn ProgressFunc) Progress {
	return Progress{fn: fn}
}

// Update invokes the wrapped function if there is one.
func (p Progress) Update(dataType string) {
	if p.fn != nil {
		p.fn(dataType)
	}
}
