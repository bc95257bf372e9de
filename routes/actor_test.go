// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{input: "patient", want: RolePatient},
		{input: "  Clinician ", want: RoleClinician},
		{input: "admin", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseRole(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseRole(%q) expected error", tt.input)
			}

			continue
		}

		if err != nil || got != tt.want {
			t.Fatalf("ParseRole(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}
}

func TestStartSessionStoresActor(t *testing.T) {
	s := newTestSession()
	f := newTestApp(s, newTestDeps())
	patientID := uuid.New()

	rec := performFormPOST(t, f, "/session", nil, map[string]string{
		HeaderPatientID: patientID.String(),
		HeaderRole:      "Clinician",
	})

	assertStatus(t, rec, http.StatusNoContent)

	if got := s.Get(sessionPatientKey); got != patientID.String() {
		t.Fatalf("expected patient %s in session, got %v", patientID, got)
	}
	if got := s.Get(sessionRoleKey); got != string(RoleClinician) {
		t.Fatalf("expected clinician role in session, got %v", got)
	}
}

func TestStartSessionRegeneratesID(t *testing.T) {
	s := newTestSession()
	f := newTestApp(s, newTestDeps())

	rec := performFormPOST(t, f, "/session", nil, map[string]string{
		HeaderPatientID: uuid.NewString(),
		HeaderRole:      "patient",
	})

	assertStatus(t, rec, http.StatusNoContent)

	if s.regenerated != 1 {
		t.Fatalf("expected session ID to be regenerated once, got %d", s.regenerated)
	}
	if s.ID() == "test-session" {
		t.Fatal("expected a new session ID after binding an identity")
	}
}

func TestStartSessionRegenerateFailure(t *testing.T) {
	s := newTestSession()
	s.regenErr = errTestBoom
	f := newTestApp(s, newTestDeps())

	rec := performFormPOST(t, f, "/session", nil, map[string]string{
		HeaderPatientID: uuid.NewString(),
		HeaderRole:      "patient",
	})

	assertStatus(t, rec, http.StatusInternalServerError)

	if s.Get(sessionPatientKey) != nil {
		t.Fatal("expected no identity bound to the old session ID")
	}
}

func TestStartSessionRejectsInvalidHeaders(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
	}{
		{name: "missing patient", headers: map[string]string{HeaderRole: "patient"}},
		{name: "malformed patient", headers: map[string]string{HeaderPatientID: "not-a-uuid", HeaderRole: "patient"}},
		{name: "nil patient", headers: map[string]string{HeaderPatientID: uuid.Nil.String(), HeaderRole: "patient"}},
		{name: "unknown role", headers: map[string]string{HeaderPatientID: uuid.NewString(), HeaderRole: "admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession()
			f := newTestApp(s, newTestDeps())

			rec := performFormPOST(t, f, "/session", nil, tt.headers)

			assertStatus(t, rec, http.StatusBadRequest)

			if s.Get(sessionPatientKey) != nil {
				t.Fatal("expected no patient in session")
			}
			if s.regenerated != 0 {
				t.Fatal("expected session ID to be left alone")
			}
		})
	}
}

func TestEndSessionClearsActor(t *testing.T) {
	s := newTestSession()
	signIn(s, uuid.New(), RolePatient)
	f := newTestApp(s, newTestDeps())

	rec := performFormPOST(t, f, "/session/end", nil, nil)

	assertStatus(t, rec, http.StatusNoContent)

	if s.Get(sessionPatientKey) != nil {
		t.Fatal("expected session to be flushed")
	}
}

func TestRequireActorRejectsAnonymousRequests(t *testing.T) {
	s := newTestSession()
	f := newTestApp(s, newTestDeps())

	rec := performGET(t, f, "/api/readings")

	assertStatus(t, rec, http.StatusUnauthorized)
}

func TestRequireActorRejectsTamperedSession(t *testing.T) {
	s := newTestSession()
	s.Set(sessionPatientKey, uuid.NewString())
	s.Set(sessionRoleKey, "superuser")
	f := newTestApp(s, newTestDeps())

	rec := performGET(t, f, "/api/readings")

	assertStatus(t, rec, http.StatusUnauthorized)
}

func TestRequireRoleGuardsWrites(t *testing.T) {
	t.Run("clinician cannot ingest", func(t *testing.T) {
		original := insertReadingsFn
		insertReadingsFn = nil
		t.Cleanup(func() { insertReadingsFn = original })

		s := newTestSession()
		signIn(s, uuid.New(), RoleClinician)
		f := newTestApp(s, newTestDeps())

		rec := performFormPOST(t, f, "/readings/new", url.Values{"date": {"2025-01-01"}}, nil)

		assertStatus(t, rec, http.StatusForbidden)
		assertNoFlash(t, s)
	})

	t.Run("patient cannot schedule draws", func(t *testing.T) {
		s := newTestSession()
		signIn(s, uuid.New(), RolePatient)
		f := newTestApp(s, newTestDeps())

		rec := performFormPOST(t, f, "/calendar/draws", url.Values{"starts_at": {"2025-01-01T09:00"}}, nil)

		assertStatus(t, rec, http.StatusForbidden)
		assertNoFlash(t, s)
	})
}
