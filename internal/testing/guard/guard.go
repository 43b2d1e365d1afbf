// Package guard flags the process as a test run when imported, so the binaries skip
// network side effects.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("PESTDOCS_TEST_MODE") == "" {
			_ = os.Setenv("PESTDOCS_TEST_MODE", "1")
		}
		if os.Getenv("GOTENBERG_URL") == "" {
			_ = os.Setenv("GOTENBERG_URL", "http://127.0.0.1:0")
		}
	})
}
