// api/controller/session_controller_test.go
package controller_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	testify_mock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/conditioncraft/composer/api/controller"
	logger "github.com/conditioncraft/composer/api/logging"
	"github.com/conditioncraft/composer/api/model"
	"github.com/conditioncraft/composer/api/service"
	"github.com/conditioncraft/composer/api/test/mock"
	"github.com/conditioncraft/composer/api/util"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	dir, err := os.MkdirTemp("", "controller-logs")
	if err != nil {
		panic(err)
	}
	logger.InitLogger(dir)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func setupSessionRouter(checker *mock.MockChecker) *gin.Engine {
	sessionService := service.NewSessionService(checker, nil, util.NewValidationUtil(), nil, nil, nil)
	sessionController := controller.NewSessionController(sessionService)

	r := gin.New()
	api := r.Group("/")
	sessionController.RegisterRoutes(api)
	return r
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	}
	return w, decoded
}

func createSession(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w, body := doJSON(t, router, "POST", "/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestSessionLifecycle(t *testing.T) {
	router := setupSessionRouter(new(mock.MockChecker))

	sessionID := createSession(t, router)

	w, body := doJSON(t, router, "GET", "/sessions/"+sessionID, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["dirty"])
	assert.Equal(t, "This policy applies to everyone, at any time, from anywhere.", body["sentence"])

	w, _ = doJSON(t, router, "DELETE", "/sessions/"+sessionID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = doJSON(t, router, "GET", "/sessions/"+sessionID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConditionCascade(t *testing.T) {
	router := setupSessionRouter(new(mock.MockChecker))
	sessionID := createSession(t, router)

	w, cond := doJSON(t, router, "POST", fmt.Sprintf("/sessions/%s/conditions", sessionID), "")
	require.Equal(t, http.StatusCreated, w.Code)
	conditionID := cond["id"].(string)
	assert.Equal(t, "who", cond["category"])
	assert.Equal(t, "equals", cond["operator"])

	base := fmt.Sprintf("/sessions/%s/conditions/%s", sessionID, conditionID)

	w, _ = doJSON(t, router, "PUT", base+"/attribute", `{"attribute":"time_hours"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, snapshot := doJSON(t, router, "GET", "/sessions/"+sessionID+"/snapshot", "")
	require.Equal(t, http.StatusOK, w.Code)
	conds := snapshot["conditions"].([]interface{})
	got := conds[0].(map[string]interface{})
	assert.Equal(t, "time_hours", got["attribute"])
	assert.Equal(t, "between", got["operator"])

	w, _ = doJSON(t, router, "PUT", base+"/value",
		`{"value":{"startHour":9,"startMinute":0,"endHour":17,"endMinute":0,"days":[1,2,3,4,5]}}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, validation := doJSON(t, router, "GET", "/sessions/"+sessionID+"/validation", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, validation["is_valid"])

	w, translation := doJSON(t, router, "GET", "/sessions/"+sessionID+"/translation", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Access is granted when: Access time is 9 AM to 5 PM on weekdays", translation["sentence"])
}

func TestSetAttributeUnknown(t *testing.T) {
	router := setupSessionRouter(new(mock.MockChecker))
	sessionID := createSession(t, router)
	w, cond := doJSON(t, router, "POST", fmt.Sprintf("/sessions/%s/conditions", sessionID), "")
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, router, "PUT",
		fmt.Sprintf("/sessions/%s/conditions/%s/attribute", sessionID, cond["id"]),
		`{"attribute":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetLogicRejectsUnknownValues(t *testing.T) {
	router := setupSessionRouter(new(mock.MockChecker))
	sessionID := createSession(t, router)

	w, _ := doJSON(t, router, "PUT", "/sessions/"+sessionID+"/logic", `{"logic":"any"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = doJSON(t, router, "PUT", "/sessions/"+sessionID+"/logic", `{"logic":"maybe"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApplyTemplateEndpoint(t *testing.T) {
	router := setupSessionRouter(new(mock.MockChecker))
	sessionID := createSession(t, router)

	w, body := doJSON(t, router, "POST", "/sessions/"+sessionID+"/template", `{"template_id":"business-hours"}`)
	require.Equal(t, http.StatusOK, w.Code)
	group := body["group"].(map[string]interface{})
	assert.Len(t, group["conditions"], 1)

	w, _ = doJSON(t, router, "POST", "/sessions/"+sessionID+"/template", `{"template_id":"nope"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckReferencesEndpoint(t *testing.T) {
	checker := new(mock.MockChecker)
	checker.On("CheckConditions", testify_mock.Anything, testify_mock.Anything).Return(&model.CheckResult{
		References: []model.ResourceReferenceStatus{
			{Type: "project", ID: "p-1", Status: model.ReferenceOrphaned},
		},
	}, nil)

	router := setupSessionRouter(checker)
	sessionID := createSession(t, router)

	w, cond := doJSON(t, router, "POST", fmt.Sprintf("/sessions/%s/conditions", sessionID), "")
	require.Equal(t, http.StatusCreated, w.Code)
	base := fmt.Sprintf("/sessions/%s/conditions/%s", sessionID, cond["id"])
	doJSON(t, router, "PUT", base+"/category", `{"category":"what"}`)
	doJSON(t, router, "PUT", base+"/attribute", `{"attribute":"resource_project"}`)
	w, _ = doJSON(t, router, "PUT", base+"/value",
		`{"value":{"kind":"resource","type":"project","selector":{"id":"p-1"}}}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	w, outcome := doJSON(t, router, "POST", "/sessions/"+sessionID+"/references/check", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "issues", outcome["status"])

	w, warnings := doJSON(t, router, "GET", "/sessions/"+sessionID+"/references/warnings", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, warnings["warnings"], 1)

	w, _ = doJSON(t, router, "DELETE", "/sessions/"+sessionID+"/references/warnings", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	_, warnings = doJSON(t, router, "GET", "/sessions/"+sessionID+"/references/warnings", "")
	assert.Empty(t, warnings["warnings"])
}

func TestReplaceAndClearConditions(t *testing.T) {
	router := setupSessionRouter(new(mock.MockChecker))
	sessionID := createSession(t, router)

	w, _ := doJSON(t, router, "PUT", "/sessions/"+sessionID+"/conditions",
		`{"conditions":[{"id":"c-1","category":"who","attribute":"user_email","operator":"equals","value":"a@b.co"}]}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	w, snapshot := doJSON(t, router, "GET", "/sessions/"+sessionID+"/snapshot", "")
	require.Equal(t, http.StatusOK, w.Code)
	conds := snapshot["conditions"].([]interface{})
	require.Len(t, conds, 1)
	assert.Equal(t, "c-1", conds[0].(map[string]interface{})["id"])

	w, _ = doJSON(t, router, "DELETE", "/sessions/"+sessionID+"/conditions", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	_, snapshot = doJSON(t, router, "GET", "/sessions/"+sessionID+"/snapshot", "")
	assert.Empty(t, snapshot["conditions"])
}
