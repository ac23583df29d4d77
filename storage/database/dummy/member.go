package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/kymanzi/ofisi/core/member"
)

type memberRepository struct {
	db *memberTable
}

var _ member.Repository = (*memberRepository)(nil) // interface compliance check

func NewMemberRepository(db *DB) member.Repository {
	return &memberRepository{db: db.member}
}

func (repo *memberRepository) query() []member.Member {
	members := make([]member.Member, 0, len(repo.db.table))
	for _, m := range repo.db.table {
		members = append(members, *m)
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].Name == members[j].Name {
			return members[i].ID < members[j].ID
		}
		return members[i].Name < members[j].Name
	})
	return members
}

func (repo *memberRepository) CheckEmailUniqueness(_ context.Context, email string, excluded ...member.Member) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, mbr := range repo.query() {
		if mbr.Email == email && !isExcluded(mbr, excluded) {
			return member.ErrEmailExists
		}
	}
	return nil
}

func isExcluded(mbr member.Member, excluded []member.Member) bool {
	for _, ex := range excluded {
		if ex.ID == mbr.ID {
			return true
		}
	}
	return false
}

func (repo *memberRepository) CreateMember(_ context.Context, mbr member.Member) (member.Member, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[mbr.ID] = &mbr
	return mbr, nil
}

func (repo *memberRepository) QueryAllMembers(_ context.Context) ([]member.Member, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *memberRepository) GetMemberByID(_ context.Context, id string) (member.Member, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if mbr, ok := repo.db.table[id]; ok {
		return *mbr, nil
	}
	return member.Member{}, member.ErrNotFound
}

func (repo *memberRepository) GetMemberByEmail(_ context.Context, email string) (member.Member, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, mbr := range repo.db.table {
		if mbr.Email == email {
			return *mbr, nil
		}
	}
	return member.Member{}, member.ErrNotFound
}

func (repo *memberRepository) FilterMembers(_ context.Context, filter member.QueryFilter) ([]member.Member, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matched := make([]member.Member, 0)
	for _, mbr := range repo.query() {
		if filter.Search != "" {
			search := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(mbr.Name), search) &&
				!strings.Contains(strings.ToLower(mbr.Email), search) {
				continue
			}
		}
		if filter.IsActive != nil && mbr.IsActive != *filter.IsActive {
			continue
		}
		matched = append(matched, mbr)
	}
	return matched, nil
}

func (repo *memberRepository) UpdateMember(_ context.Context, mbr member.Member, isActive *bool) (member.Member, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[mbr.ID]
	if !ok {
		return member.Member{}, member.ErrNotFound
	}
	if mbr.Name == "" {
		mbr.Name = orig.Name
	}
	if mbr.Initials == "" {
		mbr.Initials = orig.Initials
	}
	if mbr.Email == "" {
		mbr.Email = orig.Email
	}
	if mbr.Color == "" {
		mbr.Color = orig.Color
	}
	mbr.IsActive = orig.IsActive
	if isActive != nil {
		mbr.IsActive = *isActive
	}
	mbr.CreatedAt = orig.CreatedAt
	repo.db.table[mbr.ID] = &mbr
	return mbr, nil
}

func (repo *memberRepository) DeleteMembersByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
