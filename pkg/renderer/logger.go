package renderer

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/df07/go-pathtracer/pkg/core"
)

// DefaultLogger implements core.Logger on top of glog's info log
type DefaultLogger struct{}

// Printf logs at info severity, attributing the line to the caller
func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	glog.InfoDepth(1, fmt.Sprintf(format, args...))
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}
