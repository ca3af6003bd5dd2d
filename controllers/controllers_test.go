package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openformlab/form-server/config"
	"github.com/openformlab/form-server/controllers"
	"github.com/openformlab/form-server/middleware"
	"github.com/openformlab/form-server/models"
	"github.com/openformlab/form-server/services"
	"github.com/openformlab/form-server/testutil"
	"github.com/openformlab/form-server/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.InitLogger()
	os.Exit(m.Run())
}

// newTestRouter wires the real controllers and services over the
// in-memory store, mirroring routes.SetupRoutes without a database.
func newTestRouter(store *testutil.MemoryStore) *gin.Engine {
	userSvc := services.NewUserService(store.Users())
	formSvc := services.NewFormService(store.Forms(), store.Users())
	responseSvc := services.NewResponseService(store.Forms(), store.Responses())
	analyticsSvc := services.NewAnalyticsService(store.Forms(), store.Responses())

	authCtl := controllers.NewAuthController(userSvc)
	formCtl := controllers.NewFormController(formSvc, analyticsSvc)
	responseCtl := controllers.NewResponseController(responseSvc)

	r := gin.New()
	forms := r.Group("/forms")
	{
		forms.POST("/", formCtl.Create)
		forms.GET("/list/", formCtl.List)
		forms.GET("/:form_id", formCtl.Detail)
		forms.DELETE("/:form_id", middleware.AuthJWT(store.Users()), middleware.RequireAdmin(), formCtl.Delete)
		forms.POST("/:form_id/responses/", responseCtl.Submit)
		forms.GET("/:form_id/analytics/", formCtl.Analytics)
	}
	auth := r.Group("/auth")
	{
		auth.POST("/create/", authCtl.CreateUser)
		auth.POST("/login", authCtl.Login)
	}
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedAdmin(t *testing.T, store *testutil.MemoryStore, username, password string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	u := &models.User{Username: username, Email: username + "@example.com", PasswordHash: hash, IsSuperuser: true}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}

func questionPayload(n int) []map[string]interface{} {
	qs := make([]map[string]interface{}, 0, n)
	for i := 0; i < n; i++ {
		qs = append(qs, map[string]interface{}{
			"text":          fmt.Sprintf("question %d", i+1),
			"question_type": "text",
			"order":         i,
		})
	}
	return qs
}

func TestCreateFormEndpoint(t *testing.T) {
	store := testutil.NewMemoryStore()
	r := newTestRouter(store)
	admin := seedAdmin(t, store, "admin", "adminpass")
	plainHash, _ := utils.HashPassword("plainpass")
	plain := &models.User{Username: "plain", PasswordHash: plainHash}
	require.NoError(t, store.Users().Create(context.Background(), plain))

	t.Run("non-admin owner is rejected", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/forms/", map[string]interface{}{
			"title":     "nope",
			"user":      plain.ID,
			"questions": questionPayload(1),
		}, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("question ceiling is enforced", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/forms/", map[string]interface{}{
			"title":     "too big",
			"user":      admin.ID,
			"questions": questionPayload(101),
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("valid form is created with nested questions", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/forms/", map[string]interface{}{
			"title": "customer survey",
			"user":  admin.ID,
			"questions": []map[string]interface{}{
				{"text": "how did you find us", "question_type": "text", "order": 0},
				{"text": "pick channels", "question_type": "checkbox", "options": []string{"web", "print"}, "order": 1},
			},
		}, nil)
		require.Equal(t, http.StatusCreated, w.Code)

		var body struct {
			ID        uint              `json:"id"`
			Title     string            `json:"title"`
			User      uint              `json:"user"`
			Questions []models.Question `json:"questions"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.NotZero(t, body.ID)
		assert.Equal(t, "customer survey", body.Title)
		assert.Equal(t, admin.ID, body.User)
		require.Len(t, body.Questions, 2)
		assert.NotZero(t, body.Questions[0].ID)
		assert.Equal(t, models.OptionList{"web", "print"}, body.Questions[1].Options)
	})

	t.Run("missing title is a binding error", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/forms/", map[string]interface{}{
			"user": admin.ID,
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListFormsEndpoint(t *testing.T) {
	store := testutil.NewMemoryStore()
	r := newTestRouter(store)
	admin := seedAdmin(t, store, "admin", "adminpass")
	plain := &models.User{Username: "plain", PasswordHash: "x"}
	require.NoError(t, store.Users().Create(context.Background(), plain))

	for i := 0; i < 2; i++ {
		w := doJSON(r, http.MethodPost, "/forms/", map[string]interface{}{
			"title":     fmt.Sprintf("form %d", i+1),
			"user":      admin.ID,
			"questions": questionPayload(1),
		}, nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	t.Run("missing user_id", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/forms/list/", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/forms/list/?user_id=999", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-admin user", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, fmt.Sprintf("/forms/list/?user_id=%d", plain.ID), nil, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin sees every form", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, fmt.Sprintf("/forms/list/?user_id=%d", admin.ID), nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var forms []models.Form
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &forms))
		require.Len(t, forms, 2)
		assert.Len(t, forms[0].Questions, 1)
	})
}

func TestSubmitResponseEndpoint(t *testing.T) {
	store := testutil.NewMemoryStore()
	r := newTestRouter(store)
	admin := seedAdmin(t, store, "admin", "adminpass")

	w := doJSON(r, http.MethodPost, "/forms/", map[string]interface{}{
		"title": "colors",
		"user":  admin.ID,
		"questions": []map[string]interface{}{
			{"text": "favorite color", "question_type": "text", "order": 0},
			{"text": "pick some", "question_type": "checkbox", "options": []string{"red", "green", "blue"}, "order": 1},
		},
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var form models.Form
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &form))

	t.Run("unknown form leaves no answers behind", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/forms/999/responses/", map[string]interface{}{
			"answers": []map[string]interface{}{
				{"question": form.Questions[0].ID, "answer_text": "blue"},
			},
		}, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Zero(t, store.AnswerCount())
	})

	t.Run("answers come back verbatim", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, fmt.Sprintf("/forms/%d/responses/", form.ID), map[string]interface{}{
			"answers": []map[string]interface{}{
				{"question": form.Questions[0].ID, "answer_text": "blue"},
				{"question": form.Questions[1].ID, "selected_options": "red,green"},
			},
		}, nil)
		require.Equal(t, http.StatusCreated, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		answers, ok := body["answers"].([]interface{})
		require.True(t, ok)
		require.Len(t, answers, 2)

		first := answers[0].(map[string]interface{})
		assert.Equal(t, "blue", first["answer_text"])
		assert.Nil(t, first["selected_options"])

		second := answers[1].(map[string]interface{})
		assert.Nil(t, second["answer_text"])
		assert.Equal(t, "red,green", second["selected_options"])
	})

	t.Run("cross-form question is rejected", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/forms/", map[string]interface{}{
			"title":     "other",
			"user":      admin.ID,
			"questions": questionPayload(1),
		}, nil)
		require.Equal(t, http.StatusCreated, w.Code)
		var other models.Form
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &other))

		w = doJSON(r, http.MethodPost, fmt.Sprintf("/forms/%d/responses/", form.ID), map[string]interface{}{
			"answers": []map[string]interface{}{
				{"question": other.Questions[0].ID, "answer_text": "sneaky"},
			},
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAnalyticsEndpoint(t *testing.T) {
	store := testutil.NewMemoryStore()
	r := newTestRouter(store)
	admin := seedAdmin(t, store, "admin", "adminpass")

	w := doJSON(r, http.MethodPost, "/forms/", map[string]interface{}{
		"title":     "quiet form",
		"user":      admin.ID,
		"questions": questionPayload(2),
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var form models.Form
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &form))

	t.Run("unknown form", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/forms/999/analytics/", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("zero responses", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, fmt.Sprintf("/forms/%d/analytics/", form.ID), nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var report struct {
			FormID         uint   `json:"form_id"`
			FormTitle      string `json:"form_title"`
			TotalResponses int64  `json:"total_responses"`
			Questions      []struct {
				QuestionText  string        `json:"question_text"`
				ResponseCount int64         `json:"response_count"`
				Answers       []interface{} `json:"answers"`
			} `json:"questions"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, form.ID, report.FormID)
		assert.Equal(t, "quiet form", report.FormTitle)
		assert.Zero(t, report.TotalResponses)
		require.Len(t, report.Questions, 2)
		for _, q := range report.Questions {
			assert.Zero(t, q.ResponseCount)
			assert.NotNil(t, q.Answers)
			assert.Empty(t, q.Answers)
		}
	})
}

func TestCreateUserEndpoint(t *testing.T) {
	store := testutil.NewMemoryStore()
	r := newTestRouter(store)

	w := doJSON(r, http.MethodPost, "/auth/create/", map[string]interface{}{
		"username":   "dave",
		"email":      "dave@example.com",
		"first_name": "Dave",
		"last_name":  "Doe",
		"password":   "s3cretpw",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	body := w.Body.String()
	assert.False(t, strings.Contains(body, "s3cretpw"), "plaintext password leaked in response")
	assert.False(t, strings.Contains(body, "password"), "password field leaked in response")

	t.Run("weak payload is rejected", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/auth/create/", map[string]interface{}{
			"username": "eve",
			"password": "short",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/auth/create/", map[string]interface{}{
			"username": "dave",
			"password": "another1",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLoginAndDeleteFlow(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	store := testutil.NewMemoryStore()
	r := newTestRouter(store)
	admin := seedAdmin(t, store, "admin", "adminpass")
	plainHash, _ := utils.HashPassword("plainpass")
	plain := &models.User{Username: "plain", PasswordHash: plainHash}
	require.NoError(t, store.Users().Create(context.Background(), plain))

	w := doJSON(r, http.MethodPost, "/forms/", map[string]interface{}{
		"title":     "doomed",
		"user":      admin.ID,
		"questions": questionPayload(1),
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var form models.Form
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &form))

	w = doJSON(r, http.MethodPost, fmt.Sprintf("/forms/%d/responses/", form.ID), map[string]interface{}{
		"answers": []map[string]interface{}{
			{"question": form.Questions[0].ID, "answer_text": "hello"},
		},
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 1, store.AnswerCount())

	login := func(username, password string) string {
		w := doJSON(r, http.MethodPost, "/auth/login", map[string]interface{}{
			"username": username,
			"password": password,
		}, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.NotEmpty(t, body.Token)
		return body.Token
	}

	t.Run("bad credentials", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/auth/login", map[string]interface{}{
			"username": "admin",
			"password": "wrong",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("delete requires a token", func(t *testing.T) {
		w := doJSON(r, http.MethodDelete, fmt.Sprintf("/forms/%d", form.ID), nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("delete requires an administrator", func(t *testing.T) {
		token := login("plain", "plainpass")
		w := doJSON(r, http.MethodDelete, fmt.Sprintf("/forms/%d", form.ID), nil, map[string]string{
			"Authorization": "Bearer " + token,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin delete cascades", func(t *testing.T) {
		token := login("admin", "adminpass")
		w := doJSON(r, http.MethodDelete, fmt.Sprintf("/forms/%d", form.ID), nil, map[string]string{
			"Authorization": "Bearer " + token,
		})
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(r, http.MethodGet, fmt.Sprintf("/forms/%d", form.ID), nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Zero(t, store.AnswerCount())
		assert.Zero(t, store.ResponseCount())
	})
}
