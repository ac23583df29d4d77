package echoapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/kymanzi/ofisi/core/member"
)

func TestMemberAPI_create(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(t, http.MethodPost, "/v1/members",
		marshallObj(t, map[string]string{"name": "Ada Lovelace", "email": "Ada@Ofisi.local"}))
	checkCode(t, rec, http.StatusCreated)

	var mbr member.Member
	decodeBody(t, rec, &mbr)
	if mbr.ID == "" {
		t.Error("expected a generated id")
	}
	if mbr.Email != "ada@ofisi.local" {
		t.Errorf("email = %q; want cleaned lowercase", mbr.Email)
	}
	if mbr.Initials != "AL" {
		t.Errorf("initials = %q; want %q", mbr.Initials, "AL")
	}
	if !mbr.IsActive {
		t.Error("new members must be active")
	}

	t.Run("missing fields", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/v1/members", marshallObj(t, map[string]string{}))
		checkCode(t, rec, http.StatusBadRequest)

		var fldErrs map[string]string
		decodeBody(t, rec, &fldErrs)
		for _, fld := range []string{"name", "email"} {
			if _, ok := fldErrs[fld]; !ok {
				t.Errorf("expected a field error for %q; got %v", fld, fldErrs)
			}
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		rec := app.request(t, http.MethodPost, "/v1/members",
			marshallObj(t, map[string]string{"name": "Ada Clone", "email": "ada@ofisi.local"}))
		checkCode(t, rec, http.StatusBadRequest)

		var fldErrs map[string]string
		decodeBody(t, rec, &fldErrs)
		if _, ok := fldErrs["email"]; !ok {
			t.Errorf("expected a field error for email; got %v", fldErrs)
		}
	})
}

func TestMemberAPI_query(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	ada, err := app.memberSvc.Create(ctx, member.NewMember{Name: "Ada Lovelace", Email: "ada@ofisi.local"})
	if err != nil {
		t.Fatalf("creating fixture failed: %v", err)
	}
	if _, err = app.memberSvc.Create(ctx, member.NewMember{Name: "Grace Hopper", Email: "grace@ofisi.local"}); err != nil {
		t.Fatalf("creating fixture failed: %v", err)
	}

	rec := app.request(t, http.MethodGet, "/v1/members")
	checkCode(t, rec, http.StatusOK)
	var members []member.Member
	decodeBody(t, rec, &members)
	if len(members) != 2 {
		t.Errorf("got %d members; want 2", len(members))
	}

	rec = app.request(t, http.MethodGet, "/v1/members?search=ada")
	checkCode(t, rec, http.StatusOK)
	members = nil
	decodeBody(t, rec, &members)
	if len(members) != 1 || members[0].ID != ada.ID {
		t.Errorf("search = %+v; want just %q", members, ada.Name)
	}
}

func TestMemberAPI_detail(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	mbr, err := app.memberSvc.Create(ctx, member.NewMember{Name: "Ada Lovelace", Email: "ada@ofisi.local"})
	if err != nil {
		t.Fatalf("creating fixture failed: %v", err)
	}

	rec := app.request(t, http.MethodGet, "/v1/members/"+mbr.ID)
	checkCode(t, rec, http.StatusOK)

	rec = app.request(t, http.MethodGet, "/v1/members/nope")
	checkCode(t, rec, http.StatusNotFound)

	rec = app.request(t, http.MethodPut, "/v1/members/"+mbr.ID,
		marshallObj(t, map[string]interface{}{"name": "Ada L.", "is_active": false}))
	checkCode(t, rec, http.StatusOK)
	var updated member.Member
	decodeBody(t, rec, &updated)
	if updated.Name != "Ada L." {
		t.Errorf("name = %q; want %q", updated.Name, "Ada L.")
	}
	if updated.IsActive {
		t.Error("expected member deactivated")
	}

	rec = app.request(t, http.MethodDelete, "/v1/members/"+mbr.ID)
	checkCode(t, rec, http.StatusNoContent)
	if _, err := app.memberSvc.GetByID(ctx, mbr.ID); err != member.ErrNotFound {
		t.Errorf("expected member gone; err = %v", err)
	}
}
