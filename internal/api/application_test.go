package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitApplicationToMissingProperty(t *testing.T) {
	s := newTestServer(t)
	// Scenario straight from the product: register a buyer, log in, apply to
	// a property that does not exist.
	_, token := s.signup(t, "alice", "alice@x.com", "hunter22", "buyer")

	w := s.do(t, http.MethodPost, "/applications", token, gin.H{"property_id": 999})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitApplicationZeroOrOmittedPropertyID(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signup(t, "alice", "alice@x.com", "hunter22", "buyer")

	// A zero or omitted property_id is an absent property, not a malformed
	// request.
	w := s.do(t, http.MethodPost, "/applications", token, gin.H{"property_id": 0})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/applications", token, gin.H{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitApplicationDefaultsToPending(t *testing.T) {
	s := newTestServer(t)
	_, agentToken := s.signup(t, "amy", "amy@x.com", "hunter22", "agent")
	buyerID, buyerToken := s.signup(t, "bob", "bob@x.com", "hunter22", "buyer")

	propID := s.createProperty(t, agentToken, "Flat", 900)

	w := s.do(t, http.MethodPost, "/applications", buyerToken, gin.H{"property_id": propID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp["status"])
	assert.EqualValues(t, buyerID, resp["user_id"])
	assert.NotEmpty(t, resp["date_submitted"])
}

func TestSubmitApplicationTwiceAllowed(t *testing.T) {
	s := newTestServer(t)
	_, agentToken := s.signup(t, "amy", "amy@x.com", "hunter22", "agent")
	_, buyerToken := s.signup(t, "bob", "bob@x.com", "hunter22", "buyer")

	propID := s.createProperty(t, agentToken, "Flat", 900)

	// No duplicate check: both submissions are accepted.
	for i := 0; i < 2; i++ {
		w := s.do(t, http.MethodPost, "/applications", buyerToken, gin.H{"property_id": propID})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := s.do(t, http.MethodGet, "/applications", buyerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var apps []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apps))
	assert.Len(t, apps, 2)
}

func TestListOwnApplicationsIsScopedToCaller(t *testing.T) {
	s := newTestServer(t)
	_, agentToken := s.signup(t, "amy", "amy@x.com", "hunter22", "agent")
	_, bobToken := s.signup(t, "bob", "bob@x.com", "hunter22", "buyer")
	_, carolToken := s.signup(t, "carol", "carol@x.com", "hunter22", "buyer")

	propID := s.createProperty(t, agentToken, "Flat", 900)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/applications", bobToken, gin.H{"property_id": propID}).Code)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/applications", carolToken, gin.H{"property_id": propID}).Code)

	w := s.do(t, http.MethodGet, "/applications", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var apps []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apps))
	assert.Len(t, apps, 1)
}

func TestListAllApplicationsRequiresAgentOrAdmin(t *testing.T) {
	s := newTestServer(t)
	_, agentToken := s.signup(t, "amy", "amy@x.com", "hunter22", "agent")
	_, buyerToken := s.signup(t, "bob", "bob@x.com", "hunter22", "buyer")
	_, adminToken := s.seedAdmin(t, "root", "root@x.com", "hunter22")

	propID := s.createProperty(t, agentToken, "Flat", 900)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/applications", buyerToken, gin.H{"property_id": propID}).Code)

	// Buyers are rejected at the role gate.
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/applications/agent", buyerToken, nil).Code)

	// Agents and admins see every application system-wide.
	for _, token := range []string{agentToken, adminToken} {
		w := s.do(t, http.MethodGet, "/applications/agent", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var apps []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apps))
		assert.Len(t, apps, 1)
	}
}

func TestReviewApplicationApproveFlow(t *testing.T) {
	s := newTestServer(t)
	_, agentToken := s.signup(t, "amy", "amy@x.com", "hunter22", "agent")
	_, buyerToken := s.signup(t, "bob", "bob@x.com", "hunter22", "buyer")

	// Agent lists a property, buyer applies, agent approves, and the buyer's
	// own listing reflects the decision.
	propID := s.createProperty(t, agentToken, "Flat", 900)
	w := s.do(t, http.MethodPost, "/applications", buyerToken, gin.H{"property_id": propID})
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	appID := uint(created["id"].(float64))

	w = s.do(t, http.MethodPut, fmt.Sprintf("/applications/%d", appID), agentToken, gin.H{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/applications", buyerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var apps []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apps))
	require.Len(t, apps, 1)
	assert.Equal(t, "approved", apps[0]["status"])
}

func TestReviewApplicationRejectsBadStatus(t *testing.T) {
	s := newTestServer(t)
	_, agentToken := s.signup(t, "amy", "amy@x.com", "hunter22", "agent")
	_, buyerToken := s.signup(t, "bob", "bob@x.com", "hunter22", "buyer")

	propID := s.createProperty(t, agentToken, "Flat", 900)
	w := s.do(t, http.MethodPost, "/applications", buyerToken, gin.H{"property_id": propID})
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	appID := uint(created["id"].(float64))

	// Only approved/rejected are acceptable targets, whatever the role.
	for _, status := range []string{"pending", "withdrawn", "APPROVED", ""} {
		w := s.do(t, http.MethodPut, fmt.Sprintf("/applications/%d", appID), agentToken, gin.H{"status": status})
		assert.Equal(t, http.StatusBadRequest, w.Code, "status %q", status)
	}
}

func TestReviewApplicationForbiddenForBuyers(t *testing.T) {
	s := newTestServer(t)
	_, agentToken := s.signup(t, "amy", "amy@x.com", "hunter22", "agent")
	_, buyerToken := s.signup(t, "bob", "bob@x.com", "hunter22", "buyer")

	propID := s.createProperty(t, agentToken, "Flat", 900)
	w := s.do(t, http.MethodPost, "/applications", buyerToken, gin.H{"property_id": propID})
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	appID := uint(created["id"].(float64))

	w = s.do(t, http.MethodPut, fmt.Sprintf("/applications/%d", appID), buyerToken, gin.H{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReviewApplicationNotFound(t *testing.T) {
	s := newTestServer(t)
	_, agentToken := s.signup(t, "amy", "amy@x.com", "hunter22", "agent")

	w := s.do(t, http.MethodPut, "/applications/999", agentToken, gin.H{"status": "approved"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewApplicationOnlyFromPending(t *testing.T) {
	s := newTestServer(t)
	_, agentToken := s.signup(t, "amy", "amy@x.com", "hunter22", "agent")
	_, buyerToken := s.signup(t, "bob", "bob@x.com", "hunter22", "buyer")

	propID := s.createProperty(t, agentToken, "Flat", 900)
	w := s.do(t, http.MethodPost, "/applications", buyerToken, gin.H{"property_id": propID})
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	appID := uint(created["id"].(float64))

	path := fmt.Sprintf("/applications/%d", appID)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, path, agentToken, gin.H{"status": "rejected"}).Code)

	// Reviewed applications are final; there is no re-review transition.
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, path, agentToken, gin.H{"status": "approved"}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, path, agentToken, gin.H{"status": "rejected"}).Code)
}
