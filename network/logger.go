package network

import (
	"fmt"

	"github.com/vidresolve/vidresolve/log"
)

// retryLogger routes retryablehttp diagnostics into the application log.
type retryLogger struct{}

func fields(keysAndValues []interface{}) log.Fields {
	f := make(log.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}

func (retryLogger) Error(msg string, keysAndValues ...interface{}) {
	log.WithFields(fields(keysAndValues)).Warn(msg)
}

func (retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	log.WithFields(fields(keysAndValues)).Warn(msg)
}

func (retryLogger) Info(msg string, keysAndValues ...interface{}) {
	log.WithFields(fields(keysAndValues)).Debug(msg)
}

func (retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	log.WithFields(fields(keysAndValues)).Trace(msg)
}
