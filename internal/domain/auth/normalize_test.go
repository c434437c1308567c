package auth

import (
	"reflect"
	"testing"
)

func TestNormalize_Lowercases(t *testing.T) {
	role, roles := Normalize("Admin", []string{"Admin", "Trader"})
	if role != "admin" {
		t.Fatalf("role = %q, want admin", role)
	}
	if !reflect.DeepEqual(roles, []Role{"admin", "trader"}) {
		t.Fatalf("roles = %v", roles)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	role1, roles1 := Normalize("Admin", []string{"Admin"})
	role2, roles2 := Normalize(string(role1), rolesToStrings(roles1))
	if role1 != role2 || !reflect.DeepEqual(roles1, roles2) {
		t.Fatalf("second pass changed output: %v/%v vs %v/%v", role1, roles1, role2, roles2)
	}
}

func TestNormalize_FallbackOrder(t *testing.T) {
	role, _ := Normalize("", []string{"Trader", "Admin"})
	if role != "trader" {
		t.Fatalf("role = %q, want trader (first of list)", role)
	}

	role, roles := Normalize("", nil)
	if role != DefaultRole {
		t.Fatalf("role = %q, want %q", role, DefaultRole)
	}
	if roles != nil {
		t.Fatalf("roles = %v, want nil", roles)
	}
}

func TestNormalize_DropsBlankEntries(t *testing.T) {
	role, roles := Normalize("  ", []string{"", "  ", "Viewer"})
	if role != "viewer" {
		t.Fatalf("role = %q, want viewer", role)
	}
	if !reflect.DeepEqual(roles, []Role{"viewer"}) {
		t.Fatalf("roles = %v", roles)
	}
}

func TestNormalize_UnknownRolesPassThrough(t *testing.T) {
	role, _ := Normalize("Quant-Desk", nil)
	if role != "quant-desk" {
		t.Fatalf("role = %q, unknown names must pass through", role)
	}
}

func TestHasAdminAccess_EitherField(t *testing.T) {
	cases := []struct {
		name  string
		role  Role
		roles []Role
		want  bool
	}{
		{"plain user", "user", nil, false},
		{"primary admin", "admin", nil, true},
		{"administrator variant", "administrator", nil, true},
		{"super_admin variant", "super_admin", nil, true},
		{"superadmin variant", "superadmin", nil, true},
		{"root variant", "root", nil, true},
		{"admin only in list", "user", []Role{"user", "admin"}, true},
		{"unknown roles", "trader", []Role{"viewer"}, false},
		{"raw casing still matches", "Admin", nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasAdminAccess(tc.role, tc.roles); got != tc.want {
				t.Fatalf("HasAdminAccess(%q, %v) = %v, want %v", tc.role, tc.roles, got, tc.want)
			}
		})
	}
}

func TestNormalizeUser(t *testing.T) {
	u := NormalizeUser(User{ID: "1", Email: "a@b.c", Role: "Admin", Roles: []string{"Admin", ""}})
	if u.Role != "admin" {
		t.Fatalf("role = %q", u.Role)
	}
	if !reflect.DeepEqual(u.Roles, []string{"admin"}) {
		t.Fatalf("roles = %v", u.Roles)
	}
}

func rolesToStrings(roles []Role) []string {
	if roles == nil {
		return nil
	}
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
