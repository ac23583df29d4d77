package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/kymanzi/ofisi/core"
	"github.com/kymanzi/ofisi/core/event"
	"github.com/kymanzi/ofisi/core/member"
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		DisableReqLogs bool

		EventSvc   *event.Service
		MemberSvc  *member.Service
		ViewCache  ViewCache // nil disables caching
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	registerMemberAPI(v1, s.opts.MemberSvc, s.opts.Validate, s.opts.Translator)
	registerEventAPI(v1, s.opts.EventSvc, s.opts.ViewCache, s.opts.Validate)
	registerCalendarAPI(v1, s.opts.Conf, s.opts.EventSvc, s.opts.ViewCache)
}

// Start serves the API and blocks until a shutdown signal arrives or
// the listener fails. Shutdown drains in-flight requests for up to
// Server.ShutdownTimeout.
func (s *server) Start() error {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- s.app.Start(s.opts.Conf.Server.Address())
	}()

	select {
	case err := <-serverErrors:
		return errors.Wrap(err, "server error")
	case sig := <-s.shutdown:
		s.opts.Logger.Info(fmt.Sprintf("shutdown started: %v", sig))
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.Conf.Server.ShutdownTimeout)
		defer cancel()
		if err := s.Stop(ctx); err != nil {
			_ = s.app.Close()
			return errors.Wrap(err, "could not stop server gracefully")
		}
	}
	return nil
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

// signalShutdown is handed to the error handler so integrity errors
// can bring the server down gracefully.
func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Ofisi API!")
}
