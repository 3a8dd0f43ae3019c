package log

import (
	"github.com/sirupsen/logrus"
)

type Logger interface {
	Print(...interface{})
	Printf(string, ...interface{})
	Error(...interface{})
	Errorf(string, ...interface{})
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

type logger struct {
	*logrus.Entry
}

// New creates a logger for the given environment: JSON at info level in
// prod, colored text at debug level everywhere else.
func New(env string) Logger {
	l := logrus.New()

	if env == "prod" {
		l.Formatter = &logrus.JSONFormatter{}
		l.Level = logrus.InfoLevel
	} else {
		l.Formatter = &logrus.TextFormatter{}
		l.Level = logrus.DebugLevel
	}

	return logger{l.WithField("env", env)}
}

func (l logger) Print(args ...interface{}) {
	l.Println(args...)
}

func (l logger) Error(args ...interface{}) {
	l.Errorln(args...)
}

func (l logger) Fatal(args ...interface{}) {
	l.Fatalln(args...)
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() Logger {
	return nop{}
}

type nop struct{}

func (nop) Print(...interface{})          {}
func (nop) Printf(string, ...interface{}) {}
func (nop) Error(...interface{})          {}
func (nop) Errorf(string, ...interface{}) {}
func (nop) Fatal(...interface{})          {}
func (nop) Fatalf(string, ...interface{}) {}
