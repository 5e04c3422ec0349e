package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"real_estate_api/internal/domain"
)

func TestGetUserSelfOrAdmin(t *testing.T) {
	s := newTestServer(t)
	aliceID, aliceToken := s.signup(t, "alice", "alice@x.com", "hunter22", "buyer")
	_, bobToken := s.signup(t, "bob", "bob@x.com", "hunter22", "buyer")
	_, adminToken := s.seedAdmin(t, "root", "root@x.com", "hunter22")

	path := fmt.Sprintf("/register/%d", aliceID)

	// Self may read.
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, path, aliceToken, nil).Code)
	// Another buyer may not.
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, path, bobToken, nil).Code)
	// Admin may.
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, path, adminToken, nil).Code)
}

func TestGetUserNotFoundForAdmin(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.seedAdmin(t, "root", "root@x.com", "hunter22")

	w := s.do(t, http.MethodGet, "/register/999", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateUserPartialFields(t *testing.T) {
	s := newTestServer(t)
	aliceID, aliceToken := s.signup(t, "alice", "alice@x.com", "hunter22", "buyer")

	w := s.do(t, http.MethodPut, fmt.Sprintf("/register/%d", aliceID), aliceToken, gin.H{
		"username": "alice_v2",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice_v2", resp["username"])
	// Untouched fields survive.
	assert.Equal(t, "alice@x.com", resp["email"])
	assert.Equal(t, "buyer", resp["role"])
}

func TestUpdateUserEmailConflict(t *testing.T) {
	s := newTestServer(t)
	aliceID, aliceToken := s.signup(t, "alice", "alice@x.com", "hunter22", "buyer")
	s.register(t, "bob", "bob@x.com", "hunter22", "buyer")

	w := s.do(t, http.MethodPut, fmt.Sprintf("/register/%d", aliceID), aliceToken, gin.H{
		"email": "bob@x.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email already in use")

	// Re-submitting one's own email is not a conflict.
	w = s.do(t, http.MethodPut, fmt.Sprintf("/register/%d", aliceID), aliceToken, gin.H{
		"email": "alice@x.com",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateUserUsernameConflict(t *testing.T) {
	s := newTestServer(t)
	aliceID, aliceToken := s.signup(t, "alice", "alice@x.com", "hunter22", "buyer")
	s.register(t, "bob", "bob@x.com", "hunter22", "buyer")

	w := s.do(t, http.MethodPut, fmt.Sprintf("/register/%d", aliceID), aliceToken, gin.H{
		"username": "bob",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Username already in use")
}

func TestUpdateUserPasswordRehashAllowsNewLogin(t *testing.T) {
	s := newTestServer(t)
	aliceID, aliceToken := s.signup(t, "alice", "alice@x.com", "hunter22", "buyer")

	w := s.do(t, http.MethodPut, fmt.Sprintf("/register/%d", aliceID), aliceToken, gin.H{
		"password": "brand-new-pw",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Old password no longer works, new one does.
	old := s.do(t, http.MethodPost, "/login", "", gin.H{"email": "alice@x.com", "password": "hunter22"})
	assert.Equal(t, http.StatusUnauthorized, old.Code)
	s.login(t, "alice@x.com", "brand-new-pw")

	// The stored value is a hash, not the raw password.
	var user domain.User
	require.NoError(t, s.db.First(&user, aliceID).Error)
	assert.NotEqual(t, "brand-new-pw", user.Password)
}

func TestUpdateUserCannotGrantAdmin(t *testing.T) {
	s := newTestServer(t)
	aliceID, aliceToken := s.signup(t, "alice", "alice@x.com", "hunter22", "buyer")

	w := s.do(t, http.MethodPut, fmt.Sprintf("/register/%d", aliceID), aliceToken, gin.H{
		"role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Switching between self-service roles is fine.
	w = s.do(t, http.MethodPut, fmt.Sprintf("/register/%d", aliceID), aliceToken, gin.H{
		"role": "property_owner",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateUserForbiddenForOthers(t *testing.T) {
	s := newTestServer(t)
	aliceID, _ := s.signup(t, "alice", "alice@x.com", "hunter22", "buyer")
	_, bobToken := s.signup(t, "bob", "bob@x.com", "hunter22", "agent")

	w := s.do(t, http.MethodPut, fmt.Sprintf("/register/%d", aliceID), bobToken, gin.H{
		"username": "hijacked",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteUserCascades(t *testing.T) {
	s := newTestServer(t)
	aliceID, aliceToken := s.signup(t, "alice", "alice@x.com", "hunter22", "property_owner")
	_, bobToken := s.signup(t, "bob", "bob@x.com", "hunter22", "buyer")

	// Alice lists a property; bob applies to it and wishlists it; alice also
	// wishlists her own listing.
	propID := s.createProperty(t, aliceToken, "Cottage", 120000)
	w := s.do(t, http.MethodPost, "/applications", bobToken, gin.H{"property_id": propID})
	require.Equal(t, http.StatusCreated, w.Code)
	w = s.do(t, http.MethodPost, "/wishlist", bobToken, gin.H{"property_id": propID})
	require.Equal(t, http.StatusCreated, w.Code)
	w = s.do(t, http.MethodPost, "/wishlist", aliceToken, gin.H{"property_id": propID})
	require.Equal(t, http.StatusCreated, w.Code)

	// Deleting alice removes her account, her property, and every row that
	// referenced the property, including bob's.
	w = s.do(t, http.MethodDelete, fmt.Sprintf("/register/%d", aliceID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "User deleted")

	var users, props, apps, wishes int64
	require.NoError(t, s.db.Model(&domain.User{}).Where("id = ?", aliceID).Count(&users).Error)
	require.NoError(t, s.db.Model(&domain.Property{}).Count(&props).Error)
	require.NoError(t, s.db.Model(&domain.Application{}).Count(&apps).Error)
	require.NoError(t, s.db.Model(&domain.Wishlist{}).Count(&wishes).Error)
	assert.Zero(t, users)
	assert.Zero(t, props)
	assert.Zero(t, apps)
	assert.Zero(t, wishes)
}

func TestDeleteUserForbiddenForOthers(t *testing.T) {
	s := newTestServer(t)
	aliceID, _ := s.signup(t, "alice", "alice@x.com", "hunter22", "buyer")
	_, bobToken := s.signup(t, "bob", "bob@x.com", "hunter22", "agent")

	w := s.do(t, http.MethodDelete, fmt.Sprintf("/register/%d", aliceID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteUserAllowedForAdmin(t *testing.T) {
	s := newTestServer(t)
	aliceID, _ := s.signup(t, "alice", "alice@x.com", "hunter22", "buyer")
	_, adminToken := s.seedAdmin(t, "root", "root@x.com", "hunter22")

	w := s.do(t, http.MethodDelete, fmt.Sprintf("/register/%d", aliceID), adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
