package worker

import (
	"testing"

	"go.uber.org/goleak"
)

// Every pool must release its workers and the results closer
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
