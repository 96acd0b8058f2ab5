package srcmap

import (
	"github.com/srcspan/srcspan/internal/helpers"
	"github.com/srcspan/srcspan/internal/srcfile"
)

// WarmAnalysis forces every currently registered file's Analysis to be
// computed now, concurrently, rather than lazily on first lookup (§4.3:
// Analysis is "computed once, lazily, the first time it's needed"; this is
// an eager variant for callers about to issue a burst of lookups against a
// large file set and want that one-time cost paid up front, off the
// request path). Uses the teacher's ThreadSafeWaitGroup rather than
// sync.WaitGroup because Add is called from the launching goroutine while
// Wait runs concurrently with goroutines still calling Done, the pattern
// esbuild's own parallel-parse fan-out needs.
func (m *SourceMap) WarmAnalysis() {
	files := m.Files()

	wg := helpers.MakeThreadSafeWaitGroup()
	wg.Add(int32(len(files)))
	for _, f := range files {
		go func(f *srcfile.SourceFile) {
			defer wg.Done()
			f.Analysis()
		}(f)
	}
	wg.Wait()
}
