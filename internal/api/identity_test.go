package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nicolaspreciadodev/gosport/internal/api"
	"github.com/nicolaspreciadodev/gosport/internal/booking"
)

type stubDirectory struct {
	users map[int64]*booking.User
}

func (d *stubDirectory) GetUser(ctx context.Context, id int64) (*booking.User, error) {
	user, ok := d.users[id]
	if !ok {
		return nil, booking.ErrUserNotFound
	}
	return user, nil
}

func identityProbe(t *testing.T, directory *stubDirectory, header string) (booking.Principal, bool) {
	t.Helper()

	var (
		principal booking.Principal
		found     bool
	)
	handler := api.WithIdentity(directory)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, found = api.PrincipalFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("X-User-ID", header)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return principal, found
}

func TestWithIdentityResolvesUser(t *testing.T) {
	directory := &stubDirectory{users: map[int64]*booking.User{
		7: {ID: 7, Email: "player@example.com", Role: booking.RoleUser, Active: true},
	}}

	principal, found := identityProbe(t, directory, "7")
	if !found {
		t.Fatalf("expected principal in context")
	}
	if principal.UserID != 7 || principal.Email != "player@example.com" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
	if principal.IsAdmin() {
		t.Fatalf("expected non-admin principal")
	}
}

func TestWithIdentityAnonymousPassthrough(t *testing.T) {
	directory := &stubDirectory{users: map[int64]*booking.User{}}

	if _, found := identityProbe(t, directory, ""); found {
		t.Fatalf("expected no principal without header")
	}
	if _, found := identityProbe(t, directory, "999"); found {
		t.Fatalf("expected no principal for unknown user")
	}
	if _, found := identityProbe(t, directory, "junk"); found {
		t.Fatalf("expected no principal for malformed header")
	}
}

func TestWithIdentityInactiveUser(t *testing.T) {
	directory := &stubDirectory{users: map[int64]*booking.User{
		7: {ID: 7, Email: "gone@example.com", Role: booking.RoleUser, Active: false},
	}}

	if _, found := identityProbe(t, directory, "7"); found {
		t.Fatalf("expected no principal for inactive user")
	}
}
