package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/userhub/user-management-api/internal/core/domain"
	"github.com/userhub/user-management-api/internal/core/ports"
)

type stubUserService struct {
	createFn       func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error)
	createAdminFn  func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error)
	listFn         func(ctx context.Context) ([]*domain.User, error)
	getByIDFn      func(ctx context.Context, id string) (*domain.User, error)
	updateFn       func(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error)
	changeStatusFn func(ctx context.Context, targetID string, status domain.UserStatus, actingAdminID string) error
	removeFn       func(ctx context.Context, id string) error
	restoreFn      func(ctx context.Context, id string) error
}

func (s *stubUserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, input)
}

func (s *stubUserService) CreateAdmin(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	return s.createAdminFn(ctx, input)
}

func (s *stubUserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubUserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, id, input)
}

func (s *stubUserService) ChangeStatus(ctx context.Context, targetID string, status domain.UserStatus, actingAdminID string) error {
	return s.changeStatusFn(ctx, targetID, status, actingAdminID)
}

func (s *stubUserService) Remove(ctx context.Context, id string) error {
	return s.removeFn(ctx, id)
}

func (s *stubUserService) Restore(ctx context.Context, id string) error {
	return s.restoreFn(ctx, id)
}

// newUserCtx builds a context with a path parameter and, optionally, the
// principal the Auth middleware would have injected.
func newUserCtx(t *testing.T, method, body, paramID, principalID, principalRole string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/", nil)
	} else {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if paramID != "" {
		c.SetParamNames("id")
		c.SetParamValues(paramID)
	}
	if principalID != "" {
		c.Set("user_id", principalID)
		c.Set("role", principalRole)
	}
	return c, rec
}

func TestUserHandler_Create_Success(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
			if input.Name != "Alice" || input.Email != "alice@example.com" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{
				ID:     "u1",
				Name:   input.Name,
				Email:  input.Email,
				Role:   domain.RoleUser,
				Status: domain.StatusActive,
			}, nil
		},
	}
	handler := NewUserHandler(stub)

	body := `{"name":"Alice","email":"alice@example.com","password":"secret-pass"}`
	c, rec := newUserCtx(t, http.MethodPost, body, "", "", "")

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["role"] != domain.RoleUser {
		t.Fatalf("unexpected user payload: %+v", user)
	}
}

func TestUserHandler_Create_IgnoresRequestedRole(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
			return &domain.User{ID: "u1", Name: input.Name, Email: input.Email, Role: domain.RoleUser, Status: domain.StatusActive}, nil
		},
	}
	handler := NewUserHandler(stub)

	// A role field in the payload must not change which service method runs
	// or what it receives.
	body := `{"name":"Mallory","email":"mallory@example.com","password":"secret-pass","role":"admin"}`
	c, rec := newUserCtx(t, http.MethodPost, body, "", "", "")

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user := resp["user"].(map[string]any)
	if user["role"] != domain.RoleUser {
		t.Fatalf("expected role %q, got %v", domain.RoleUser, user["role"])
	}
}

func TestUserHandler_Create_ShortPassword(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewUserHandler(stub)

	body := `{"name":"Alice","email":"alice@example.com","password":"short"}`
	c, _ := newUserCtx(t, http.MethodPost, body, "", "", "")

	err := handler.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestUserHandler_Create_EmailTaken(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	handler := NewUserHandler(stub)

	body := `{"name":"Alice","email":"alice@example.com","password":"secret-pass"}`
	c, _ := newUserCtx(t, http.MethodPost, body, "", "", "")

	if err := handler.Create(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserHandler_CreateAdmin_Success(t *testing.T) {
	stub := &stubUserService{
		createAdminFn: func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
			return &domain.User{ID: "a1", Name: input.Name, Email: input.Email, Role: domain.RoleAdmin, Status: domain.StatusActive}, nil
		},
	}
	handler := NewUserHandler(stub)

	body := `{"name":"Root","email":"root@example.com","password":"secret-pass"}`
	c, rec := newUserCtx(t, http.MethodPost, body, "", "", "")

	if err := handler.CreateAdmin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user := resp["user"].(map[string]any)
	if user["role"] != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %v", user["role"])
	}
}

func TestUserHandler_List_Success(t *testing.T) {
	stub := &stubUserService{
		listFn: func(ctx context.Context) ([]*domain.User, error) {
			return []*domain.User{
				{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleUser, Status: domain.StatusActive},
				{ID: "u2", Name: "Bob", Email: "bob@example.com", Role: domain.RoleUser, Status: domain.StatusInactive},
			}, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newUserCtx(t, http.MethodGet, "", "", "a1", domain.RoleAdmin)
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	users, ok := resp["users"].([]any)
	if !ok || len(users) != 2 {
		t.Fatalf("expected 2 users, got %v", resp["users"])
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	stub := &stubUserService{
		getByIDFn: func(ctx context.Context, id string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	handler := NewUserHandler(stub)

	c, _ := newUserCtx(t, http.MethodGet, "", "ghost", "u1", domain.RoleUser)
	if err := handler.Get(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserHandler_Update_Self(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
			if id != "u1" {
				t.Fatalf("unexpected id: %s", id)
			}
			if input.Name == nil || *input.Name != "Alice B" {
				t.Fatalf("unexpected input: %+v", input)
			}
			if input.Email != nil {
				t.Fatalf("email should be nil when absent from payload")
			}
			return &domain.User{ID: id, Name: *input.Name, Email: "alice@example.com", Role: domain.RoleUser, Status: domain.StatusActive}, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newUserCtx(t, http.MethodPatch, `{"name":"Alice B"}`, "u1", "u1", domain.RoleUser)
	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Update_OtherUserForbidden(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewUserHandler(stub)

	c, _ := newUserCtx(t, http.MethodPatch, `{"name":"x"}`, "u2", "u1", domain.RoleUser)
	if err := handler.Update(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserHandler_Update_AdminStillForbiddenOnOthers(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewUserHandler(stub)

	c, _ := newUserCtx(t, http.MethodPatch, `{"name":"x"}`, "u2", "a1", domain.RoleAdmin)
	if err := handler.Update(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserHandler_Update_MissingPrincipal(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewUserHandler(stub)

	c, _ := newUserCtx(t, http.MethodPatch, `{"name":"x"}`, "u1", "", "")
	err := handler.Update(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestUserHandler_ChangeStatus_Success(t *testing.T) {
	stub := &stubUserService{
		changeStatusFn: func(ctx context.Context, targetID string, status domain.UserStatus, actingAdminID string) error {
			if targetID != "u1" || status != domain.StatusInactive || actingAdminID != "a1" {
				t.Fatalf("unexpected args: %s %s %s", targetID, status, actingAdminID)
			}
			return nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newUserCtx(t, http.MethodPatch, `{"status":"inactive"}`, "u1", "a1", domain.RoleAdmin)
	if err := handler.ChangeStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}

func TestUserHandler_ChangeStatus_InvalidStatus(t *testing.T) {
	stub := &stubUserService{
		changeStatusFn: func(ctx context.Context, targetID string, status domain.UserStatus, actingAdminID string) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	handler := NewUserHandler(stub)

	c, _ := newUserCtx(t, http.MethodPatch, `{"status":"frozen"}`, "u1", "a1", domain.RoleAdmin)
	err := handler.ChangeStatus(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestUserHandler_ChangeStatus_ServiceForbids(t *testing.T) {
	stub := &stubUserService{
		changeStatusFn: func(ctx context.Context, targetID string, status domain.UserStatus, actingAdminID string) error {
			return domain.ErrForbidden
		},
	}
	handler := NewUserHandler(stub)

	c, _ := newUserCtx(t, http.MethodPatch, `{"status":"active"}`, "u1", "not-admin", domain.RoleAdmin)
	if err := handler.ChangeStatus(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserHandler_Delete_Self(t *testing.T) {
	removed := false
	stub := &stubUserService{
		removeFn: func(ctx context.Context, id string) error {
			if id != "u1" {
				t.Fatalf("unexpected id: %s", id)
			}
			removed = true
			return nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newUserCtx(t, http.MethodDelete, "", "u1", "u1", domain.RoleUser)
	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !removed {
		t.Fatalf("expected Remove to be called")
	}
}

func TestUserHandler_Delete_OtherUserForbidden(t *testing.T) {
	stub := &stubUserService{
		removeFn: func(ctx context.Context, id string) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	handler := NewUserHandler(stub)

	c, _ := newUserCtx(t, http.MethodDelete, "", "u2", "u1", domain.RoleUser)
	if err := handler.Delete(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserHandler_Restore_Success(t *testing.T) {
	stub := &stubUserService{
		restoreFn: func(ctx context.Context, id string) error {
			if id != "u1" {
				t.Fatalf("unexpected id: %s", id)
			}
			return nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newUserCtx(t, http.MethodPatch, "", "u1", "a1", domain.RoleAdmin)
	if err := handler.Restore(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Restore_NotFound(t *testing.T) {
	stub := &stubUserService{
		restoreFn: func(ctx context.Context, id string) error {
			return domain.ErrUserNotFound
		},
	}
	handler := NewUserHandler(stub)

	c, _ := newUserCtx(t, http.MethodPatch, "", "ghost", "a1", domain.RoleAdmin)
	if err := handler.Restore(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
