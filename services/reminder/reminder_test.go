package remindersvc

import (
	"context"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kymanzi/ofisi/core"
	"github.com/kymanzi/ofisi/core/event"
	"github.com/kymanzi/ofisi/core/member"
	emailsvc "github.com/kymanzi/ofisi/services/email"
	dummydb "github.com/kymanzi/ofisi/storage/database/dummy"

	_ "github.com/kymanzi/ofisi/fs" // email templates
)

func testConfig() *core.Config {
	return &core.Config{
		Env:             "test",
		TestMode:        true,
		AppName:         "Ofisi",
		DefaultFromName: "Ofisi",
		DefaultFromAddr: "noreply@ofisi.local",
		FrontendBaseURL: "http://localhost:3000",
		Reminder: core.ReminderConfig{
			Enabled:  true,
			CronSpec: "@every 1m",
			Lead:     time.Hour,
		},
	}
}

func TestReminderRun(t *testing.T) {
	conf := testConfig()
	logger := core.StdLogger{Std: log.New(os.Stderr, "", 0)}

	db, err := dummydb.Open()
	require.NoError(t, err)
	eventSvc := event.NewService(dummydb.NewEventRepository(db))
	memberSvc := member.NewService(dummydb.NewMemberRepository(db))
	mailSvc := emailsvc.NewConsoleService(conf)

	ctx := context.Background()
	mbr, err := memberSvc.Create(ctx, member.NewMember{Name: "Ada Lovelace", Email: "ada@ofisi.local"})
	require.NoError(t, err)

	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	soon, err := eventSvc.Create(ctx, event.NewEvent{
		Title:  "Standup",
		Start:  now.Add(30 * time.Minute),
		End:    now.Add(45 * time.Minute),
		UserID: mbr.ID,
	})
	require.NoError(t, err)

	// outside the lead window, must not trigger
	_, err = eventSvc.Create(ctx, event.NewEvent{
		Title:  "Planning",
		Start:  now.Add(3 * time.Hour),
		End:    now.Add(4 * time.Hour),
		UserID: mbr.ID,
	})
	require.NoError(t, err)

	// unassigned, must not trigger
	_, err = eventSvc.Create(ctx, event.NewEvent{
		Title: "Office closed",
		Start: now.Add(30 * time.Minute),
		End:   now.Add(time.Hour),
	})
	require.NoError(t, err)

	job := NewJob(conf, logger, eventSvc, memberSvc, mailSvc)
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run(ctx))

	require.Eventually(t, func() bool {
		return len(emailsvc.SentMessages) >= 1
	}, 2*time.Second, 10*time.Millisecond)

	require.Len(t, emailsvc.SentMessages, 1)
	msg := emailsvc.SentMessages[0]
	assert.Equal(t, "Reminder: Standup", msg.Subject)
	require.Len(t, msg.To, 1)
	assert.Equal(t, "ada@ofisi.local", msg.To[0].Address)
	assert.True(t, strings.Contains(msg.TextContent, "Standup"))
	assert.True(t, strings.Contains(msg.TextContent, "Ada Lovelace"))

	// the pass marks the event, a second run sends nothing
	got, err := eventSvc.GetByID(ctx, soon.ID)
	require.NoError(t, err)
	assert.True(t, got.ReminderSent)

	require.NoError(t, job.Run(ctx))
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, emailsvc.SentMessages, 1)
}

func TestReminderSkipsInactiveMember(t *testing.T) {
	conf := testConfig()
	logger := core.StdLogger{Std: log.New(os.Stderr, "", 0)}

	db, err := dummydb.Open()
	require.NoError(t, err)
	eventSvc := event.NewService(dummydb.NewEventRepository(db))
	memberSvc := member.NewService(dummydb.NewMemberRepository(db))
	mailSvc := emailsvc.NewConsoleService(conf)

	ctx := context.Background()
	mbr, err := memberSvc.Create(ctx, member.NewMember{Name: "Bob Odd", Email: "bob@ofisi.local"})
	require.NoError(t, err)
	inactive := false
	_, err = memberSvc.Update(ctx, mbr.ID, member.UpdateMember{IsActive: &inactive})
	require.NoError(t, err)

	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	evt, err := eventSvc.Create(ctx, event.NewEvent{
		Title:  "1:1",
		Start:  now.Add(15 * time.Minute),
		End:    now.Add(45 * time.Minute),
		UserID: mbr.ID,
	})
	require.NoError(t, err)

	before := len(emailsvc.SentMessages)
	job := NewJob(conf, logger, eventSvc, memberSvc, mailSvc)
	job.now = func() time.Time { return now }
	require.NoError(t, job.Run(ctx))

	time.Sleep(50 * time.Millisecond)
	assert.Len(t, emailsvc.SentMessages, before)

	// still marked so it is not retried forever
	got, err := eventSvc.GetByID(ctx, evt.ID)
	require.NoError(t, err)
	assert.True(t, got.ReminderSent)
}
