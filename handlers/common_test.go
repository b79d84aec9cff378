package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gameon/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func failRecorder(err error, details string) apperrors.Envelope {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	failWith(c, "Test", err, details)

	var env apperrors.Envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return env
}

func TestFailWithKeepsDetailsOnlyForServerErrors(t *testing.T) {
	env := failRecorder(errors.New("mongo: connection reset by peer 10.0.0.4"), msgFeedFailed)
	assert.Equal(t, http.StatusInternalServerError, env.StatusCode)
	assert.Equal(t, msgFeedFailed, env.Details)
	assert.Equal(t, apperrors.MsgServer, env.Error)
	assert.NotContains(t, env.Message, "10.0.0.4")

	env = failRecorder(apperrors.NotFound("User not found"), msgFeedFailed)
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
	assert.Empty(t, env.Details)
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 20, false},
		{"limit=", 20, false},
		{"limit=5", 5, false},
		{"limit=-3", -3, false},
		{"limit=1.5", 0, true},
		{"limit=ten", 0, true},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/api/feed?"+tt.query, nil)
		got, err := queryInt(c, "limit", 20)
		if tt.wantErr {
			require.Error(t, err, tt.query)
			continue
		}
		require.NoError(t, err, tt.query)
		assert.Equal(t, tt.want, got, tt.query)
	}
}

func TestNewDefaultsTimeout(t *testing.T) {
	h := New(Deps{})
	assert.Positive(t, h.RequestTimeout)
}
