package remindersvc

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kymanzi/ofisi/core"
	"github.com/kymanzi/ofisi/core/event"
	"github.com/kymanzi/ofisi/core/member"
)

// templateData is what the event-reminder email templates render.
type templateData struct {
	MemberName string
	Title      string
	StartsAt   string
}

// Job periodically looks up upcoming events and emails the assigned
// member a reminder. Each event is reminded at most once.
type Job struct {
	conf      *core.Config
	logger    core.Logger
	eventSvc  *event.Service
	memberSvc *member.Service
	mailSvc   core.EmailService

	cron *cron.Cron
	now  func() time.Time // overridable in tests
}

func NewJob(
	conf *core.Config,
	logger core.Logger,
	eventSvc *event.Service,
	memberSvc *member.Service,
	mailSvc core.EmailService,
) *Job {
	return &Job{
		conf:      conf,
		logger:    logger,
		eventSvc:  eventSvc,
		memberSvc: memberSvc,
		mailSvc:   mailSvc,
		now:       time.Now,
	}
}

// Start schedules the job according to conf.Reminder.CronSpec and runs
// it in the background until Stop is called.
func (j *Job) Start() error {
	j.cron = cron.New()
	if _, err := j.cron.AddFunc(j.conf.Reminder.CronSpec, func() {
		if err := j.Run(context.Background()); err != nil {
			j.logger.Error("reminder run failed", err)
		}
	}); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info(fmt.Sprintf("reminder job scheduled (%s)", j.conf.Reminder.CronSpec))
	return nil
}

// Stop halts the schedule and waits for a running iteration to finish.
func (j *Job) Stop() {
	if j.cron == nil {
		return
	}
	ctx := j.cron.Stop()
	<-ctx.Done()
}

// Run performs a single reminder pass.
func (j *Job) Run(ctx context.Context) error {
	due, err := j.eventSvc.DueReminders(ctx, j.now(), j.conf.Reminder.Lead)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	var messages []*core.EmailMessage
	var reminded []string
	for _, evt := range due {
		mbr, err := j.memberSvc.GetByID(ctx, evt.UserID.String)
		if err != nil {
			if err == member.ErrNotFound {
				// assignee gone, drop the reminder silently
				reminded = append(reminded, evt.ID)
				continue
			}
			return err
		}
		if !mbr.IsActive {
			reminded = append(reminded, evt.ID)
			continue
		}
		messages = append(messages, &core.EmailMessage{
			To:           []mail.Address{{Name: mbr.Name, Address: mbr.Email}},
			Subject:      fmt.Sprintf("Reminder: %s", evt.Title),
			TemplateName: "event-reminder",
			TemplateData: templateData{
				MemberName: mbr.Name,
				Title:      evt.Title,
				StartsAt:   evt.Start.Format("Mon, 02 Jan 2006 15:04 MST"),
			},
		})
		reminded = append(reminded, evt.ID)
	}

	if len(messages) > 0 {
		j.mailSvc.SendMessages(messages...)
	}
	if len(reminded) > 0 {
		if err := j.eventSvc.MarkReminded(ctx, reminded...); err != nil {
			return err
		}
	}
	j.logger.Info(fmt.Sprintf("reminder pass done, %d sent", len(messages)))
	return nil
}
