// Package dummydb provides in-memory repositories for tests.
package dummydb

import (
	"sync"

	"github.com/kymanzi/ofisi/core/event"
	"github.com/kymanzi/ofisi/core/member"
)

type (
	DB struct {
		event  *eventTable
		member *memberTable
	}

	eventTable struct {
		sync.RWMutex
		table map[string]*event.Event
	}

	memberTable struct {
		sync.RWMutex
		table map[string]*member.Member
	}
)

func Open() (*DB, error) {
	db := &DB{
		event:  &eventTable{table: make(map[string]*event.Event)},
		member: &memberTable{table: make(map[string]*member.Member)},
	}
	return db, nil
}
