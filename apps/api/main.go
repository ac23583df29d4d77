package main

import (
	"log"
	"os"

	echoapi "github.com/kymanzi/ofisi/apps/api/echo"
	"github.com/kymanzi/ofisi/core"
	"github.com/kymanzi/ofisi/core/event"
	"github.com/kymanzi/ofisi/core/member"
	emailsvc "github.com/kymanzi/ofisi/services/email"
	logsvc "github.com/kymanzi/ofisi/services/logger"
	remindersvc "github.com/kymanzi/ofisi/services/reminder"
	"github.com/kymanzi/ofisi/storage/database"
	"github.com/kymanzi/ofisi/storage/database/sqlxrepos"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	if err != nil {
		std.Fatalf("loading config: %+v", err)
	}

	var logger core.Logger
	if conf.Debug || conf.RollbarToken == "" {
		logger = core.StdLogger{Std: std}
	} else {
		rl := logsvc.NewRollbarLogger(std, conf)
		defer rl.Close()
		logger = rl
	}

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		std.Fatalf("opening database: %+v", err)
	}
	defer db.Close()
	if err := database.Migrate(db, conf); err != nil {
		std.Fatalf("migrating database: %+v", err)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	if len(conf.PaletteColors) > 0 {
		event.Colors = conf.PaletteColors
	}
	eventSvc := event.NewService(sqlxrepos.NewEventRepository(db))
	memberSvc := member.NewService(sqlxrepos.NewMemberRepository(db))

	validate, translator := core.NewValidator()
	event.RegisterValidators(validate, translator)

	var viewCache echoapi.ViewCache
	if conf.Cache.Enabled {
		if viewCache, err = echoapi.NewRedisViewCache(conf, logger); err != nil {
			std.Fatalf("setting up view cache: %+v", err)
		}
	}

	if conf.Reminder.Enabled {
		job := remindersvc.NewJob(conf, logger, eventSvc, memberSvc, mailSvc)
		if err := job.Start(); err != nil {
			std.Fatalf("starting reminder job: %+v", err)
		}
		defer job.Stop()
	}

	// start API server
	app := echoapi.NewServer(&echoapi.Options{
		Conf:       conf,
		Logger:     logger,
		EventSvc:   eventSvc,
		MemberSvc:  memberSvc,
		ViewCache:  viewCache,
		Validate:   validate,
		Translator: translator,
	})
	if err := app.Start(); err != nil {
		std.Fatalf("%+v", err)
	}
}
