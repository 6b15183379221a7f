package server

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromoteDemoteFlow(t *testing.T) {
	_, app, db := newTestServer(t)
	seedUser(t, db, "admin@example.com", "password123", models.TypeAdmin)
	target := seedUser(t, db, "target@example.com", "password123", models.TypeUser)
	token := loginToken(t, app, "admin@example.com", "password123")

	status, body := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/user/%d/promote-to-admin", target.ID), token,
		map[string]string{"password": "password123"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User with email target@example.com promoted to admin", body["message"])

	// Promoting again reports the role conflict.
	status, body = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/user/%d/promote-to-admin", target.ID), token,
		map[string]string{"password": "password123"})
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "User with email target@example.com already has admin type", body["message"])

	status, body = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/user/%d/demote-to-user", target.ID), token,
		map[string]string{"password": "password123"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User with email target@example.com demote to user", body["message"])
}

func TestPromoteRequiresActorPassword(t *testing.T) {
	_, app, db := newTestServer(t)
	seedUser(t, db, "admin@example.com", "password123", models.TypeAdmin)
	target := seedUser(t, db, "target@example.com", "password123", models.TypeUser)
	token := loginToken(t, app, "admin@example.com", "password123")

	status, body := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/user/%d/promote-to-admin", target.ID), token,
		map[string]string{"password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Password is incorrect", body["message"])
}

func TestAdminsListGating(t *testing.T) {
	_, app, db := newTestServer(t)
	seedUser(t, db, "admin@example.com", "password123", models.TypeAdmin)
	seedUser(t, db, "plain@example.com", "password123", models.TypeUser)

	plainToken := loginToken(t, app, "plain@example.com", "password123")
	status, _ := doJSON(t, app, http.MethodGet, "/api/user/adminsList", plainToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	adminToken := loginToken(t, app, "admin@example.com", "password123")
	status, body := doJSON(t, app, http.MethodGet, "/api/user/adminsList", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "admin@example.com", data[0].(map[string]any)["email"])
}

func TestUserLikedPosts(t *testing.T) {
	_, app, db := newTestServer(t)
	user := seedUser(t, db, "liker@example.com", "password123", models.TypeUser)
	token := loginToken(t, app, "liker@example.com", "password123")

	post := seedPost(t, db, user.ID)
	status, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/post/%d/like", post.ID), token, nil)
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/user/%d/liked-posts", user.ID), "", nil)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, float64(post.ID), data[0].(map[string]any)["id"])
}

func TestUpdateProfile(t *testing.T) {
	s, app, db := newTestServer(t)
	user := seedUser(t, db, "me@example.com", "password123", models.TypeUser)
	token := loginToken(t, app, "me@example.com", "password123")

	// An existing image file is removed when the URL changes.
	oldRel := "profiles/old.png"
	oldAbs := filepath.Join(s.config.UploadDir, "profiles", "old.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(oldAbs), 0o755))
	require.NoError(t, os.WriteFile(oldAbs, []byte("png"), 0o644))
	require.NoError(t, db.Model(user).Update("profile_image_url", oldRel).Error)

	status, body := doJSON(t, app, http.MethodPost, "/api/profile/update", token, map[string]string{
		"name":              "Renamed",
		"profile_image_url": "profiles/new.png",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Profile updated successfully", body["message"])

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "profiles/new.png", got.ProfileImageURL)
	_, err := os.Stat(oldAbs)
	assert.True(t, os.IsNotExist(err))
}

func TestUpdateProfileRejectedKeepsImageFile(t *testing.T) {
	s, app, db := newTestServer(t)
	user := seedUser(t, db, "me@example.com", "password123", models.TypeUser)
	token := loginToken(t, app, "me@example.com", "password123")

	oldRel := "profiles/old.png"
	oldAbs := filepath.Join(s.config.UploadDir, "profiles", "old.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(oldAbs), 0o755))
	require.NoError(t, os.WriteFile(oldAbs, []byte("png"), 0o644))
	require.NoError(t, db.Model(user).Update("profile_image_url", oldRel).Error)

	// Empty name fails validation; the stored file and the row must survive.
	status, _ := doJSON(t, app, http.MethodPost, "/api/profile/update", token, map[string]string{
		"name":              "",
		"profile_image_url": "profiles/new.png",
	})
	require.Equal(t, http.StatusUnprocessableEntity, status)

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, oldRel, got.ProfileImageURL)
	_, err := os.Stat(oldAbs)
	assert.NoError(t, err)
}

func TestUploadProfileImage(t *testing.T) {
	s, app, db := newTestServer(t)
	seedUser(t, db, "me@example.com", "password123", models.TypeUser)
	token := loginToken(t, app, "me@example.com", "password123")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", "avatar.png")
	require.NoError(t, err)
	_, err = io.WriteString(part, "fake png bytes")
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload/upload-profile-image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "Profile image for user with email me@example.com uploaded successfully", body["message"])

	url := body["data"].(map[string]any)["url"].(string)
	assert.Contains(t, url, "profiles/")
	_, err = os.Stat(filepath.Join(s.config.UploadDir, filepath.FromSlash(url)))
	assert.NoError(t, err)
}

func TestUploadPostImageAdminOnly(t *testing.T) {
	_, app, db := newTestServer(t)
	seedUser(t, db, "plain@example.com", "password123", models.TypeUser)
	token := loginToken(t, app, "plain@example.com", "password123")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", "cover.jpg")
	require.NoError(t, err)
	_, err = io.WriteString(part, "fake jpg bytes")
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload/upload-post-image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
