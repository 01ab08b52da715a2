package market_test

import (
	"os"
	"testing"

	"github.com/effective-security/xlog"
)

func TestMain(m *testing.M) {
	xlog.SetFormatter(xlog.NewStringFormatter(os.Stdout))
	xlog.SetGlobalLogLevel(xlog.DEBUG)
	os.Exit(m.Run())
}

func ptr[T any](v T) *T {
	return &v
}
