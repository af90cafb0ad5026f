package logging

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logg *logrus.Logger
	once sync.Once
)

// L returns the shared JSON logger, initializing it on first use.
// Level comes from LOG_LEVEL (default info).
func L() *logrus.Logger {
	once.Do(func() {
		logg = logrus.New()
		logg.SetFormatter(&logrus.JSONFormatter{})
		logg.SetOutput(os.Stdout)
		lvl := logrus.InfoLevel
		if v := os.Getenv("LOG_LEVEL"); v != "" {
			if parsed, err := logrus.ParseLevel(strings.ToLower(v)); err == nil {
				lvl = parsed
			}
		}
		logg.SetLevel(lvl)
	})
	return logg
}
