package accesskit

import (
	"net/http"
)

// Middleware provides HTTP middleware for permission checking on
// business-scoped routes.
type Middleware struct {
	service      *Service
	getUserID    func(*http.Request) string
	errorHandler func(http.ResponseWriter, *http.Request, error)
}

// MiddlewareOption configures the Middleware.
type MiddlewareOption func(*Middleware)

// NewMiddleware creates a new Middleware instance.
//
// Example:
//
//	mw := accesskit.NewMiddleware(service,
//	    accesskit.WithUserIDExtractor(func(r *http.Request) string {
//	        return r.Context().Value("user_id").(string)
//	    }),
//	)
func NewMiddleware(service *Service, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		service:      service,
		getUserID:    defaultGetUserID,
		errorHandler: defaultErrorHandler,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// WithUserIDExtractor sets a custom function to extract user ID from request.
func WithUserIDExtractor(fn func(*http.Request) string) MiddlewareOption {
	return func(m *Middleware) {
		m.getUserID = fn
	}
}

// WithErrorHandler sets a custom error handler for middleware.
func WithErrorHandler(fn func(http.ResponseWriter, *http.Request, error)) MiddlewareOption {
	return func(m *Middleware) {
		m.errorHandler = fn
	}
}

func defaultGetUserID(r *http.Request) string {
	return GetUserID(r.Context())
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	if IsUnauthorized(err) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if IsValidation(err) || IsTreeError(err) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// ContextExtractor extracts the target business context from an HTTP request.
type ContextExtractor func(*http.Request) (Context, error)

// ContextFromParams creates a ContextExtractor that reads the business,
// location and department IDs from URL path values. Location and department
// parameter names may be empty for business-level routes.
//
// Example:
//
//	// For route /businesses/{bizID}/locations/{locID}/appointments
//	mw.RequirePermission(accesskit.PermBookAppointment,
//	    accesskit.ContextFromParams("bizID", "locID", ""))
func ContextFromParams(businessParam, locationParam, departmentParam string) ContextExtractor {
	return func(r *http.Request) (Context, error) {
		c := Context{BusinessID: r.PathValue(businessParam)}
		if c.BusinessID == "" {
			return Context{}, NewError(ErrMissingBusinessID, "business ID not found in request")
		}
		if locationParam != "" {
			c.LocationID = r.PathValue(locationParam)
		}
		if departmentParam != "" {
			c.DepartmentID = r.PathValue(departmentParam)
		}
		return c, nil
	}
}

// ContextFromHeaders creates a ContextExtractor that reads the target
// context from request headers.
//
// Example:
//
//	mw.RequirePermission(accesskit.PermViewReports,
//	    accesskit.ContextFromHeaders("X-Business-ID", "X-Location-ID", ""))
func ContextFromHeaders(businessHeader, locationHeader, departmentHeader string) ContextExtractor {
	return func(r *http.Request) (Context, error) {
		c := Context{BusinessID: r.Header.Get(businessHeader)}
		if c.BusinessID == "" {
			return Context{}, NewError(ErrMissingBusinessID, "business ID not found in header")
		}
		if locationHeader != "" {
			c.LocationID = r.Header.Get(locationHeader)
		}
		if departmentHeader != "" {
			c.DepartmentID = r.Header.Get(departmentHeader)
		}
		return c, nil
	}
}

// ContextFromQuery creates a ContextExtractor that reads the target context
// from query string parameters.
func ContextFromQuery(businessParam, locationParam, departmentParam string) ContextExtractor {
	return func(r *http.Request) (Context, error) {
		q := r.URL.Query()
		c := Context{BusinessID: q.Get(businessParam)}
		if c.BusinessID == "" {
			return Context{}, NewError(ErrMissingBusinessID, "business ID not found in query")
		}
		if locationParam != "" {
			c.LocationID = q.Get(locationParam)
		}
		if departmentParam != "" {
			c.DepartmentID = q.Get(departmentParam)
		}
		return c, nil
	}
}

// StaticContext creates a ContextExtractor that always returns the same
// target context.
func StaticContext(c Context) ContextExtractor {
	return func(r *http.Request) (Context, error) {
		return c, nil
	}
}

// RequirePermission creates middleware that requires a permission in the
// extracted business context.
//
// Example:
//
//	router.Handle("POST /businesses/{bizID}/staff",
//	    mw.RequirePermission(accesskit.PermManageAllStaff,
//	        accesskit.ContextFromParams("bizID", "", ""))(staffHandler))
func (m *Middleware) RequirePermission(p Permission, extractor ContextExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := m.getUserID(r)
			if userID == "" {
				m.errorHandler(w, r, ErrNoUserID)
				return
			}

			target, err := extractor(r)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}

			if err := m.service.RequirePermission(ctx, userID, p, target); err != nil {
				m.errorHandler(w, r, err)
				return
			}

			// Add checker to context for use in handlers
			checker, err := m.service.GetChecker(ctx, userID)
			if err == nil {
				ctx = WithChecker(ctx, checker)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole creates middleware that requires a live role in the extracted
// business context.
func (m *Middleware) RequireRole(role Role, extractor ContextExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := m.getUserID(r)
			if userID == "" {
				m.errorHandler(w, r, ErrNoUserID)
				return
			}

			target, err := extractor(r)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}

			checker, err := m.service.GetChecker(ctx, userID)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}

			if !checker.HasRole(role, target) {
				m.errorHandler(w, r, NewError(ErrUnauthorized, "missing required role").
					WithRole(role).
					WithContext(target).
					WithUser(userID))
				return
			}

			ctx = WithChecker(ctx, checker)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
