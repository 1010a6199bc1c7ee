package cache

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain ensures the concurrent Compute tests leave no goroutines behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}
