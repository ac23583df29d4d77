package member

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kymanzi/ofisi/core"
)

var (
	// errors
	ErrNotFound    = errors.New("member not found")
	ErrEmailExists = errors.New("a member with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excluded ...Member) error
		CreateMember(ctx context.Context, mbr Member) (Member, error)
		QueryAllMembers(ctx context.Context) ([]Member, error)
		GetMemberByID(ctx context.Context, id string) (Member, error)
		GetMemberByEmail(ctx context.Context, email string) (Member, error)
		FilterMembers(ctx context.Context, filter QueryFilter) ([]Member, error)
		UpdateMember(ctx context.Context, mbr Member, isActive *bool) (Member, error)
		DeleteMembersByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(email string, excluded ...Member) error {
	if err := svc.repo.CheckEmailUniqueness(context.Background(), email, excluded...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nm NewMember) (Member, error) {
	now := time.Now().UTC()
	mbr := Member{
		ID:        uuid.New().String(),
		Name:      nm.Name,
		Initials:  nm.Initials,
		Email:     nm.Email,
		Color:     nm.Color,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateMember(ctx, mbr)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Member, error) {
	return svc.repo.QueryAllMembers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Member, error) {
	return svc.repo.GetMemberByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Member, error) {
	return svc.repo.GetMemberByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Member, error) {
	filter.Clean()
	return svc.repo.FilterMembers(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, id string, um UpdateMember) (Member, error) {
	mbr := Member{
		ID:        id,
		Name:      um.Name,
		Initials:  um.Initials,
		Email:     um.Email,
		Color:     um.Color,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateMember(ctx, mbr, um.IsActive)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteMembersByID(ctx, ids...)
}
