// Package logflags turns the --log-output command line flag into
// per-component logrus loggers.
package logflags

import (
	"errors"
	"io"
	"log"
	"strings"

	"github.com/sirupsen/logrus"
)

var registry = false
var walk = false
var mem = false
var script = false
var viz = false

func makeLogger(flag bool, fields logrus.Fields) *logrus.Entry {
	logger := logrus.New().WithFields(fields)
	logger.Logger.Level = logrus.DebugLevel
	if !flag {
		logger.Logger.Level = logrus.PanicLevel
	}
	return logger
}

// Registry returns true if formatter registration and matching should log.
func Registry() bool {
	return registry
}

// RegistryLogger returns a logger for the formatter registry.
func RegistryLogger() *logrus.Entry {
	return makeLogger(registry, logrus.Fields{"layer": "pretty", "kind": "registry"})
}

// Walk returns true if structure traversal should log.
func Walk() bool {
	return walk
}

// WalkLogger returns a logger for structure traversal.
func WalkLogger() *logrus.Entry {
	return makeLogger(walk, logrus.Fields{"layer": "pretty", "kind": "walk"})
}

// Memory returns true if debuggee memory access should log.
func Memory() bool {
	return mem
}

// MemoryLogger returns a logger for debuggee memory access.
func MemoryLogger() *logrus.Entry {
	return makeLogger(mem, logrus.Fields{"layer": "memory"})
}

// Script returns true if starlark script execution should log.
func Script() bool {
	return script
}

// ScriptLogger returns a logger for starlark script execution.
func ScriptLogger() *logrus.Entry {
	return makeLogger(script, logrus.Fields{"layer": "script"})
}

// Viz returns true if the visualization server should log.
func Viz() bool {
	return viz
}

// VizLogger returns a logger for the visualization server.
func VizLogger() *logrus.Entry {
	return makeLogger(viz, logrus.Fields{"layer": "viz"})
}

var errLogstrWithoutLog = errors.New("--log-output specified without --log")

// Setup sets component log flags based on the contents of logstr.
func Setup(logFlag bool, logstr string) error {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	if !logFlag {
		log.SetOutput(io.Discard)
		if logstr != "" {
			return errLogstrWithoutLog
		}
		return nil
	}
	if logstr == "" {
		logstr = "registry"
	}
	for _, logcmd := range strings.Split(logstr, ",") {
		switch logcmd {
		case "registry":
			registry = true
		case "walk":
			walk = true
		case "memory":
			mem = true
		case "script":
			script = true
		case "viz":
			viz = true
		}
	}
	return nil
}
