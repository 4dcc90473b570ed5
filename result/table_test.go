package result_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kuzudb/gds-core/result"
)

func TestTable_ClaimAppendMerge(t *testing.T) {
	tbl := result.New("src", "dst", "length")

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			p := tbl.ClaimLocalTable()
			p.Append(worker, worker+1, int64(1))
			tbl.ReturnLocalTable(p)
		}(w)
	}
	wg.Wait()

	tbl.MergeLocalTables()
	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, []string{"src", "dst", "length"}, tbl.Columns())
}
