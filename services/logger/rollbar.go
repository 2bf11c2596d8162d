package logsvc

import (
	"io"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
	"github.com/sirupsen/logrus"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/user"
)

// RollbarLogger reports to Rollbar (when enabled) and always writes to a logrus entry.
type RollbarLogger struct {
	std *logrus.Entry
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *logrus.Entry, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

// NewStdLogger builds the logrus entry of a component (eg. "API", "ADMIN").
func NewStdLogger(out io.Writer, component string, debug bool) *logrus.Entry {
	std := logrus.New()
	std.SetOutput(out)
	std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		std.SetLevel(logrus.DebugLevel)
	}
	return std.WithField("component", component)
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// expected fmt: msg | error, map[string]interface{}, user.User
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var usrSet bool
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	for _, arg := range args {
		// set logged in User
		if usr, ok := arg.(user.User); ok {
			if !usrSet { // only set one User
				rollbar.SetPerson(usr.ID, usr.Username, "")
				usrSet = true
			}
		} else {
			newArgs = append(newArgs, arg)
		}
	}
	if !usrSet {
		rollbar.ClearPerson()
	}
	return newArgs
}

// entry attaches the args to the logrus entry as fields.
func (l RollbarLogger) entry(args []interface{}) *logrus.Entry {
	e := l.std
	var extra []interface{}
	for _, arg := range args {
		switch a := arg.(type) {
		case error:
			e = e.WithError(a)
		case map[string]interface{}:
			e = e.WithFields(a)
		case user.User:
			e = e.WithFields(logrus.Fields{"user_id": a.ID, "username": a.Username})
		default:
			extra = append(extra, a)
		}
	}
	if len(extra) > 0 {
		e = e.WithField("args", extra)
	}
	return e
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.prepare(msg, args)...)
	l.entry(args).Debug(msg)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.entry(args).Info(msg)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.entry(args).Warn(msg)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.entry(args).Error(msg)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	rollbar.Wait()
	l.entry(args).Fatal(msg)
}
