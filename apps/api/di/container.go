// Package di wires the API dependencies into a dig.Container.
package di

import (
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/academia/apps/api/echo"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/academics"
	"github.com/trezcool/academia/core/roster"
	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/core/user"
	appfs "github.com/trezcool/academia/fs"
	"github.com/trezcool/academia/services/backend"
	emailsvc "github.com/trezcool/academia/services/email"
	logsvc "github.com/trezcool/academia/services/logger"
	"github.com/trezcool/academia/services/metrics"
	"github.com/trezcool/academia/services/spreadsheet"
	inmemdb "github.com/trezcool/academia/storage/database/inmem"
)

const (
	BackendConsole = "console"
	BackendMail    = "mail"
)

type ServerParams struct {
	dig.In

	Conf       *core.Config
	Logger     core.Logger
	UserSvc    user.Service
	Sessions   *session.Store
	Roster     *roster.Service
	Metrics    *metrics.Recorder
	Validate   *validator.Validate
	Translator ut.Translator
}

func newLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(logsvc.NewStdLogger(os.Stdout, "API", conf.Debug), conf)
	logger.Enable(!(conf.Debug || conf.TestMode))
	return logger
}

func newValidation() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

func newUserRepository(conf *core.Config, validate *validator.Validate) (user.Repository, error) {
	f, err := appfs.Open(conf.Seeds.UsersFile, appfs.UsersSeed)
	if err != nil {
		return nil, errors.Wrap(err, "opening user seeds")
	}
	defer f.Close()

	users, err := user.LoadSeeds(f, validate)
	if err != nil {
		return nil, err
	}
	db := inmemdb.NewDB()
	db.LoadUsers(users...)
	return inmemdb.NewUserRepository(db), nil
}

func newRoster(conf *core.Config) (*roster.Service, error) {
	f, err := appfs.Open(conf.Seeds.RosterFile, appfs.RosterSeed)
	if err != nil {
		return nil, errors.Wrap(err, "opening roster")
	}
	defer f.Close()

	departments, err := roster.Load(f)
	if err != nil {
		return nil, err
	}
	return roster.NewService(departments), nil
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridAPIKey == "" {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newBackend(conf *core.Config, logger core.Logger, mailSvc core.EmailService, codec academics.Codec) (academics.Backend, error) {
	switch conf.Academics.Backend {
	case BackendConsole, "":
		return backend.NewConsoleBackend(logger), nil
	case BackendMail:
		return backend.NewMailBackend(mailSvc, codec, conf.RecordsOfficeEmail), nil
	default:
		return nil, errors.Errorf("unknown academics backend %q", conf.Academics.Backend)
	}
}

func newMetrics() *metrics.Recorder {
	return metrics.NewRecorder("academia")
}

func newSessionStore(conf *core.Config, codec academics.Codec, bk academics.Backend, logger core.Logger) *session.Store {
	return session.NewStore(conf.Server.JWTRefreshExpirationDelta, func(usr user.User) *academics.Workspace {
		return academics.NewWorkspace(usr.Username, codec, bk, logger)
	})
}

func newServer(p ServerParams) (*echoapi.Server, error) {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:       p.Conf,
		Logger:     p.Logger,
		UserSvc:    p.UserSvc,
		Sessions:   p.Sessions,
		Roster:     p.Roster,
		Metrics:    p.Metrics,
		Validate:   p.Validate,
		Translator: p.Translator,
	})
}

// New returns a new dependency injection dig.Container.
// `conf` is provided as is; the rest is built lazily on Invoke.
func New(conf *core.Config) (*dig.Container, error) {
	c := dig.New()

	providers := []struct {
		constructor interface{}
		opts        []dig.ProvideOption
	}{
		{constructor: func() *core.Config { return conf }},
		{constructor: newLogger},
		{constructor: newValidation},
		{constructor: newUserRepository},
		{constructor: user.NewService},
		{constructor: newRoster},
		{constructor: newEmailService},
		{constructor: spreadsheet.NewXLSXCodec, opts: []dig.ProvideOption{dig.As(new(academics.Codec))}},
		{constructor: newBackend},
		{constructor: newMetrics},
		{constructor: newSessionStore},
		{constructor: newServer},
	}
	for _, p := range providers {
		if err := c.Provide(p.constructor, p.opts...); err != nil {
			return nil, errors.Wrap(err, "failed to provide dependency")
		}
	}
	return c, nil
}
