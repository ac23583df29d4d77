package member

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kymanzi/ofisi/core"
)

// Member is a directory entry: the filter bar and avatar rendering key
// off it, and reminder emails go to it. It carries no behavior.
type Member struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Initials string    `json:"initials"`
	Email    string    `json:"email"`
	Color    string    `json:"color"`
	IsActive bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// DeriveInitials builds avatar initials from a display name:
// first letters of the first and last words, upper-cased.
func DeriveInitials(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	first := []rune(fields[0])
	initials := strings.ToUpper(string(first[0]))
	if len(fields) > 1 {
		last := []rune(fields[len(fields)-1])
		initials += strings.ToUpper(string(last[0]))
	}
	return initials
}

// NewMember contains information needed to create a new Member.
type NewMember struct {
	Name     string `json:"name" validate:"required"`
	Initials string `json:"initials" validate:"omitempty,max=3"`
	Email    string `json:"email" validate:"required,email"`
	Color    string `json:"color"`
}

func (nm *NewMember) Validate(validate *validator.Validate, svc *Service) error {
	nm.Name = core.CleanString(nm.Name)
	nm.Email = core.CleanString(nm.Email, true /* lower */)
	nm.Initials = strings.ToUpper(core.CleanString(nm.Initials))
	if nm.Initials == "" {
		nm.Initials = DeriveInitials(nm.Name)
	}

	if err := validate.Struct(nm); err != nil {
		return err
	}
	return svc.checkUniqueness(nm.Email)
}

// UpdateMember defines what information may be provided to modify an
// existing Member.
type UpdateMember struct {
	Name     string `json:"name"`
	Initials string `json:"initials" validate:"omitempty,max=3"`
	Email    string `json:"email" validate:"omitempty,email"`
	Color    string `json:"color"`
	IsActive *bool  `json:"is_active"`
}

func (um *UpdateMember) Validate(orig Member, validate *validator.Validate, svc *Service) error {
	um.Name = core.CleanString(um.Name)
	um.Email = core.CleanString(um.Email, true /* lower */)
	um.Initials = strings.ToUpper(core.CleanString(um.Initials))
	if um.Name == "" {
		um.Name = orig.Name
	}
	if um.Email == "" {
		um.Email = orig.Email
	}

	if err := validate.Struct(um); err != nil {
		return err
	}
	return svc.checkUniqueness(um.Email, orig)
}

// QueryFilter applies AND operation on available fields.
// Search does a case-insensitive match on Name or Email.
type QueryFilter struct {
	Search   string `query:"search"`
	IsActive *bool  `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
