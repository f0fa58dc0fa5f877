package completionrepo

import (
	"testing"

	"github.com/storeops/route-scheduler-api/internal/adapters/contracttest"
	completionport "github.com/storeops/route-scheduler-api/internal/ports/out/completionrepo"
)

func TestContract_MemoryCompletionRepo(t *testing.T) {
	t.Parallel()
	contracttest.RunCompletionRepo(t, func(t *testing.T) (completionport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}
