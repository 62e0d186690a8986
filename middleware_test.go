package accesskit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextExtractors(t *testing.T) {
	t.Run("ContextFromHeaders", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/appointments", nil)
		r.Header.Set("X-Business-ID", "B1")
		r.Header.Set("X-Location-ID", "L1")

		c, err := ContextFromHeaders("X-Business-ID", "X-Location-ID", "X-Department-ID")(r)
		require.NoError(t, err)
		assert.Equal(t, Context{BusinessID: "B1", LocationID: "L1"}, c)
	})

	t.Run("ContextFromHeaders missing business", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/appointments", nil)

		_, err := ContextFromHeaders("X-Business-ID", "", "")(r)
		assert.ErrorIs(t, err, ErrMissingBusinessID)
	})

	t.Run("ContextFromParams", func(t *testing.T) {
		mux := http.NewServeMux()
		var got Context
		var gotErr error
		mux.HandleFunc("GET /businesses/{bizID}/locations/{locID}", func(w http.ResponseWriter, r *http.Request) {
			got, gotErr = ContextFromParams("bizID", "locID", "")(r)
		})

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/businesses/B1/locations/L1", nil))

		require.NoError(t, gotErr)
		assert.Equal(t, Context{BusinessID: "B1", LocationID: "L1"}, got)
	})

	t.Run("ContextFromQuery", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/appointments?biz=B1&loc=L1&dep=D1", nil)

		c, err := ContextFromQuery("biz", "loc", "dep")(r)
		require.NoError(t, err)
		assert.Equal(t, Context{BusinessID: "B1", LocationID: "L1", DepartmentID: "D1"}, c)

		_, err = ContextFromQuery("biz", "", "")(httptest.NewRequest(http.MethodGet, "/appointments", nil))
		assert.ErrorIs(t, err, ErrMissingBusinessID)
	})

	t.Run("StaticContext", func(t *testing.T) {
		c, err := StaticContext(Context{BusinessID: "B1"})(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, "B1", c.BusinessID)
	})
}

func TestMiddlewareRequirePermission(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}
	ctx := context.Background()
	service, bizID, locID, _ := setupBusiness(t, ctx)
	ownerID, _ := bootstrapOwner(t, ctx, service, bizID)

	staffID := uniqueID("staff")
	_, err := service.Assign(WithActorID(ctx, ownerID), AssignInput{
		UserID:  staffID,
		Role:    RoleReceptionist,
		Context: Context{BusinessID: bizID, LocationID: locID},
	})
	require.NoError(t, err)

	mw := NewMiddleware(service, WithUserIDExtractor(func(r *http.Request) string {
		return r.Header.Get("X-User-ID")
	}))

	var sawChecker bool
	handler := mw.RequirePermission(PermBookAppointment,
		ContextFromHeaders("X-Business-ID", "X-Location-ID", ""))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawChecker = GetChecker(r.Context()) != nil
			w.WriteHeader(http.StatusNoContent)
		}))

	do := func(userID, businessID, locationID string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/appointments", nil)
		if userID != "" {
			r.Header.Set("X-User-ID", userID)
		}
		r.Header.Set("X-Business-ID", businessID)
		if locationID != "" {
			r.Header.Set("X-Location-ID", locationID)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	t.Run("Permitted request passes with checker in context", func(t *testing.T) {
		sawChecker = false
		w := do(staffID, bizID, locID)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.True(t, sawChecker)
	})

	t.Run("Missing permission yields 403", func(t *testing.T) {
		outsider := uniqueID("outsider")
		w := do(outsider, bizID, locID)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Unknown location yields 403", func(t *testing.T) {
		w := do(staffID, bizID, uniqueID("loc"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Missing user yields 500 by default", func(t *testing.T) {
		w := do("", bizID, locID)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("Missing business yields 400", func(t *testing.T) {
		w := do(staffID, "", locID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Custom error handler", func(t *testing.T) {
		custom := NewMiddleware(service,
			WithUserIDExtractor(func(r *http.Request) string { return r.Header.Get("X-User-ID") }),
			WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
				http.Error(w, "denied", http.StatusTeapot)
			}))

		h := custom.RequirePermission(PermBookAppointment,
			ContextFromHeaders("X-Business-ID", "", ""))(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		r := httptest.NewRequest(http.MethodPost, "/appointments", nil)
		r.Header.Set("X-User-ID", uniqueID("outsider"))
		r.Header.Set("X-Business-ID", bizID)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, http.StatusTeapot, w.Code)
	})
}

func TestMiddlewareRequireRole(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}
	ctx := context.Background()
	service, bizID, locID, _ := setupBusiness(t, ctx)
	ownerID, _ := bootstrapOwner(t, ctx, service, bizID)

	mgrID := uniqueID("mgr")
	_, err := service.Assign(WithActorID(ctx, ownerID), AssignInput{
		UserID:  mgrID,
		Role:    RoleLocationManager,
		Context: Context{BusinessID: bizID, LocationID: locID},
	})
	require.NoError(t, err)

	mw := NewMiddleware(service, WithUserIDExtractor(func(r *http.Request) string {
		return r.Header.Get("X-User-ID")
	}))

	handler := mw.RequireRole(RoleLocationManager,
		ContextFromHeaders("X-Business-ID", "X-Location-ID", ""))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

	do := func(userID string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/staff", nil)
		r.Header.Set("X-User-ID", userID)
		r.Header.Set("X-Business-ID", bizID)
		r.Header.Set("X-Location-ID", locID)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	t.Run("Role holder passes", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, do(mgrID).Code)
	})

	t.Run("Different role denied", func(t *testing.T) {
		// The owner outranks the manager but does not hold the role.
		assert.Equal(t, http.StatusForbidden, do(ownerID).Code)
	})
}
