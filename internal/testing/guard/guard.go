// Package guard switches the process into test mode when imported, so
// binaries under test skip opening listeners and external connections.
package guard

import (
	"os"
	"sync"
)

// EnvVar is the variable the application checks for test mode.
const EnvVar = "BRIGHTSTEPS_TEST_MODE"

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv(EnvVar) == "" {
			_ = os.Setenv(EnvVar, "1")
		}
	})
}
