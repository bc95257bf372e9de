/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
	"github.com/google/uuid"

	"github.com/humaidq/bloodwork/db"
)

// Headers set by the authenticating proxy in front of the portal.
const (
	HeaderPatientID = "X-Portal-Patient-ID"
	HeaderRole      = "X-Portal-Role"
)

const (
	sessionPatientKey = "patient_id"
	sessionRoleKey    = "role"
)

// Role is the portal role of the signed-in user.
type Role string

// Role values.
const (
	RolePatient   Role = "patient"
	RoleClinician Role = "clinician"
)

// ParseRole parses a role header value.
func ParseRole(value string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(value))); r {
	case RolePatient, RoleClinician:
		return r, nil
	default:
		return "", errInvalidRole
	}
}

// Actor is the authenticated identity of a request. PatientID is the
// patient whose records are in scope, for clinicians as well as patients.
type Actor struct {
	PatientID uuid.UUID
	Role      Role
}

// StartSession records the identity asserted by the proxy headers in the
// session.
func StartSession(c flamego.Context, s session.Session) {
	actor, err := actorFromHeaders(c.Request().Request)
	if err != nil {
		logAccessDenied(c, s, "invalid_identity_headers", http.StatusBadRequest, "", "error", err)
		writeJSONError(c, http.StatusBadRequest, "invalid identity headers")
		return
	}

	// A new identity never reuses a session ID issued before it was bound.
	if err := s.RegenerateID(c.ResponseWriter(), c.Request().Request); err != nil {
		requestLogger.Error("failed to regenerate session ID", "error", err)
		writeJSONError(c, http.StatusInternalServerError, "failed to start session")
		return
	}

	s.Set(sessionPatientKey, actor.PatientID.String())
	s.Set(sessionRoleKey, string(actor.Role))

	requestLogger.Info("session started", "patient_id", actor.PatientID, "role", actor.Role)
	c.ResponseWriter().WriteHeader(http.StatusNoContent)
}

// EndSession clears the session.
func EndSession(c flamego.Context, s session.Session) {
	s.Flush()
	c.ResponseWriter().WriteHeader(http.StatusNoContent)
}

// RequireActor maps the session's *Actor for downstream handlers or rejects
// the request.
func RequireActor(c flamego.Context, s session.Session) {
	actor, ok := actorFromSession(s)
	if !ok {
		logAccessDenied(c, s, "no_session", http.StatusUnauthorized, "")
		writeJSONError(c, http.StatusUnauthorized, "session required")
		return
	}

	c.Map(actor)
	c.Next()
}

// RequireRole rejects actors without the given role.
func RequireRole(role Role) flamego.Handler {
	return func(c flamego.Context, s session.Session, actor *Actor) {
		if actor.Role != role {
			logAccessDenied(c, s, "wrong_role", http.StatusForbidden, "", "required", role)
			writeJSONError(c, http.StatusForbidden, "not permitted for role "+string(actor.Role))
			return
		}

		c.Next()
	}
}

// ActorInjector exposes the actor to templates.
func ActorInjector() flamego.Handler {
	return func(actor *Actor, data template.Data) {
		data["Actor"] = actor
		data["IsClinician"] = actor.Role == RoleClinician
	}
}

var getPatientFn = db.GetPatient

// PatientInjector exposes the in-scope patient record to templates. An
// unknown patient renders as a no-data state.
func PatientInjector() flamego.Handler {
	return func(c flamego.Context, actor *Actor, data template.Data) {
		patient, err := getPatientFn(c.Request().Context(), actor.PatientID)
		if err != nil {
			if !errors.Is(err, db.ErrPatientNotFound) {
				requestLogger.Error("Failed to load patient", "patient_id", actor.PatientID, "error", err)
			}

			data["PatientMissing"] = true

			return
		}

		data["Patient"] = patient
	}
}

// Home sends the signed-in user to the readings overview.
func Home(c flamego.Context) {
	c.Redirect("/readings", http.StatusSeeOther)
}

func actorFromHeaders(r *http.Request) (*Actor, error) {
	raw := strings.TrimSpace(r.Header.Get(HeaderPatientID))
	if raw == "" {
		return nil, errMissingPatientHeader
	}

	patientID, err := uuid.Parse(raw)
	if err != nil || patientID == uuid.Nil {
		return nil, errInvalidPatientHeader
	}

	role, err := ParseRole(r.Header.Get(HeaderRole))
	if err != nil {
		return nil, err
	}

	return &Actor{PatientID: patientID, Role: role}, nil
}

func actorFromSession(s session.Session) (*Actor, bool) {
	rawID, ok := s.Get(sessionPatientKey).(string)
	if !ok {
		return nil, false
	}

	patientID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, false
	}

	rawRole, _ := s.Get(sessionRoleKey).(string)

	role, err := ParseRole(rawRole)
	if err != nil {
		return nil, false
	}

	return &Actor{PatientID: patientID, Role: role}, true
}
