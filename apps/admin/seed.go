package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/kymanzi/ofisi/core/calendar"
	"github.com/kymanzi/ofisi/core/event"
	"github.com/kymanzi/ofisi/core/member"
	"github.com/kymanzi/ofisi/storage/database/sqlxrepos"
)

// newSeedCmd loads a small demo data set so a fresh install has
// something to render.
func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo members and events",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := context.Background()
			memberSvc := member.NewService(sqlxrepos.NewMemberRepository(db))
			eventSvc := event.NewService(sqlxrepos.NewEventRepository(db))

			members := []member.NewMember{
				{Name: "Ada Lovelace", Email: "ada@example.com", Color: "indigo"},
				{Name: "Grace Hopper", Email: "grace@example.com", Color: "teal"},
				{Name: "Alan Turing", Email: "alan@example.com", Color: "amber"},
			}
			ids := make([]string, 0, len(members))
			for _, nm := range members {
				if existing, err := memberSvc.GetByEmail(ctx, nm.Email); err == nil {
					ids = append(ids, existing.ID)
					continue
				}
				mbr, err := memberSvc.Create(ctx, nm)
				if err != nil {
					return err
				}
				ids = append(ids, mbr.ID)
			}

			monday := calendar.DateOf(time.Now())
			for monday.Weekday() != time.Monday {
				monday = monday.AddDays(-1)
			}
			at := func(day calendar.Date, hour int) time.Time {
				return day.Time(time.UTC).Add(time.Duration(hour) * time.Hour)
			}

			events := []event.NewEvent{
				{
					Title:      "Standup",
					Start:      at(monday, 9),
					End:        at(monday, 9).Add(15 * time.Minute),
					UserID:     ids[0],
					Color:      "indigo",
					Recurrence: "FREQ=DAILY;COUNT=5",
				},
				{
					Title:  "Design review",
					Start:  at(monday.AddDays(2), 14),
					End:    at(monday.AddDays(2), 15),
					UserID: ids[1],
					Color:  "teal",
				},
				{
					Title:    "Offsite",
					AllDay:   true,
					StartDay: monday.AddDays(3),
					EndDay:   monday.AddDays(4),
					UserID:   ids[2],
					Color:    "amber",
				},
			}
			for _, ne := range events {
				if _, err := eventSvc.Create(ctx, ne); err != nil {
					return err
				}
			}

			logger.Printf("seeded %d members and %d events", len(members), len(events))
			return nil
		},
	}
}
