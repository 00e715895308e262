package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mcdur/task-management-api/internal/config"
	"github.com/mcdur/task-management-api/internal/models"
	"github.com/mcdur/task-management-api/internal/services"
	"github.com/mcdur/task-management-api/internal/testutil"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:               8080,
			GinMode:            gin.TestMode,
			LogLevel:           "error",
			CORSAllowedOrigins: []string{"https://app.example.com"},
			ShutdownTimeout:    time.Second,
		},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
		Auth: config.AuthConfig{
			Realm:         "task-management",
			UserUsername:  "user",
			UserPassword:  "password",
			AdminUsername: "admin",
			AdminPassword: "admin",
			BcryptCost:    bcrypt.MinCost,
		},
	}
}

type ServerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	server *Server
}

func (suite *ServerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.db = testutil.NewTestDB(suite.T())

	var err error
	suite.server, err = NewServer(testConfig(), suite.db)
	suite.Require().NoError(err)
}

func (suite *ServerTestSuite) request(method, url, username, password string, body interface{}) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		suite.Require().NoError(err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if username != "" {
		req.SetBasicAuth(username, password)
	}

	w := httptest.NewRecorder()
	suite.server.Handler().ServeHTTP(w, req)
	return w
}

func (suite *ServerTestSuite) taskCount() int64 {
	var count int64
	suite.Require().NoError(suite.db.Model(&models.Task{}).Count(&count).Error)
	return count
}

func (suite *ServerTestSuite) TestHealth() {
	w := suite.request(http.MethodGet, "/health", "", "", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.NotEmpty(w.Header().Get("X-Request-ID"))
}

func (suite *ServerTestSuite) TestRejectsMissingOrWrongCredentials() {
	owner := testutil.CreateUser(suite.T(), suite.db, "owner")
	testutil.CreateTask(suite.T(), suite.db, "Existing", models.TaskStatusTodo, owner)

	calls := []struct {
		method string
		url    string
		body   interface{}
	}{
		{http.MethodGet, "/api/tasks", nil},
		{http.MethodGet, "/api/tasks/1", nil},
		{http.MethodPost, "/api/tasks", map[string]string{"title": "Sneaky"}},
		{http.MethodPut, "/api/tasks/1", map[string]string{"title": "Sneaky"}},
		{http.MethodDelete, "/api/tasks/1", nil},
		{http.MethodGet, "/api/users", nil},
		{http.MethodPost, "/api/users", map[string]string{"username": "eve", "password": "password1"}},
		{http.MethodGet, "/api/users/1/tasks", nil},
		{http.MethodDelete, "/api/users/1", nil},
	}

	for _, call := range calls {
		w := suite.request(call.method, call.url, "", "", call.body)
		suite.Equal(http.StatusUnauthorized, w.Code, call.method+" "+call.url)
		suite.Equal(`Basic realm="task-management", charset="UTF-8"`, w.Header().Get("WWW-Authenticate"))

		w = suite.request(call.method, call.url, "admin", "wrong", call.body)
		suite.Equal(http.StatusUnauthorized, w.Code, call.method+" "+call.url)
	}

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, 1).Error)
	suite.Equal("Existing", stored.Title)
	suite.Equal(int64(1), suite.taskCount())

	var users int64
	suite.Require().NoError(suite.db.Model(&models.User{}).Count(&users).Error)
	suite.Equal(int64(1), users)
}

func (suite *ServerTestSuite) TestUserCannotCreateTask() {
	w := suite.request(http.MethodPost, "/api/tasks", "user", "password", map[string]string{"title": "Nope"})

	suite.Equal(http.StatusForbidden, w.Code)
	suite.Zero(suite.taskCount())
}

func (suite *ServerTestSuite) TestAdminCreatesTask() {
	w := suite.request(http.MethodPost, "/api/tasks", "admin", "admin", map[string]string{
		"title":       "Test Task",
		"description": "Testing persistence layer",
	})

	suite.Equal(http.StatusCreated, w.Code)

	var created map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	suite.NotNil(created["id"])
	suite.Equal("Test Task", created["title"])
	suite.Equal(int64(1), suite.taskCount())
}

func (suite *ServerTestSuite) TestAdminCreateUser_PasswordOverBcryptLimit() {
	w := suite.request(http.MethodPost, "/api/users", "admin", "admin", map[string]string{
		"username": "bob",
		"password": strings.Repeat("p", 80),
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), `"INVALID_INPUT"`)
}

func (suite *ServerTestSuite) TestRoleEnforcementPerRoute() {
	testutil.CreateTask(suite.T(), suite.db, "Task", models.TaskStatusTodo, nil)

	tests := []struct {
		name     string
		method   string
		url      string
		username string
		password string
		body     interface{}
		expected int
	}{
		{"user lists tasks", http.MethodGet, "/api/tasks", "user", "password", nil, http.StatusOK},
		{"admin lists tasks", http.MethodGet, "/api/tasks", "admin", "admin", nil, http.StatusOK},
		{"user gets task", http.MethodGet, "/api/tasks/1", "user", "password", nil, http.StatusOK},
		{"user updates task", http.MethodPut, "/api/tasks/1", "user", "password", map[string]string{"title": "x"}, http.StatusForbidden},
		{"user deletes task", http.MethodDelete, "/api/tasks/1", "user", "password", nil, http.StatusForbidden},
		{"user creates user", http.MethodPost, "/api/users", "user", "password", map[string]string{"username": "bob", "password": "password1"}, http.StatusForbidden},
		{"user lists users", http.MethodGet, "/api/users", "user", "password", nil, http.StatusOK},
		{"admin updates task", http.MethodPut, "/api/tasks/1", "admin", "admin", map[string]string{"title": "Renamed"}, http.StatusOK},
		{"admin deletes task", http.MethodDelete, "/api/tasks/1", "admin", "admin", nil, http.StatusNoContent},
		{"admin deletes missing task", http.MethodDelete, "/api/tasks/1", "admin", "admin", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		w := suite.request(tt.method, tt.url, tt.username, tt.password, tt.body)
		suite.Equal(tt.expected, w.Code, tt.name)
	}
}

func (suite *ServerTestSuite) TestSeededTasks() {
	suite.Require().NoError(suite.server.SeedDemoData(context.Background()))

	w := suite.request(http.MethodGet, "/api/tasks", "user", "password", nil)
	suite.Equal(http.StatusOK, w.Code)

	var tasks []struct {
		Title      string `json:"title"`
		Status     string `json:"status"`
		AssignedTo *struct {
			Username string `json:"username"`
		} `json:"assignedTo"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tasks))
	suite.Require().Len(tasks, 2)
	suite.Equal("Task 1", tasks[0].Title)
	suite.Equal("TODO", tasks[0].Status)
	suite.Equal("COMPLETED", tasks[1].Status)
	suite.Require().NotNil(tasks[0].AssignedTo)
	suite.Equal("mcdur", tasks[0].AssignedTo.Username)
}

func (suite *ServerTestSuite) TestCORS() {
	req := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	suite.server.Handler().ServeHTTP(w, req)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.Equal("https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func TestNewServer_DuplicateAccounts(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.AdminUsername = cfg.Auth.UserUsername

	_, err := NewServer(cfg, testutil.NewTestDB(t))
	require.ErrorIs(t, err, services.ErrDuplicateAccount)
}

func TestRun_StopsOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.Server.Port = 0

	srv, err := NewServer(cfg, testutil.NewTestDB(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
