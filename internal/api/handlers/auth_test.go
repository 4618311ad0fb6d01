package handlers_test

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/ali-khaled-949/myChatApp/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Register(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name             string
		form             url.Values
		setup            func()
		expectedStatus   int
		expectedLocation string
		expectedBody     string
	}{
		{
			name: "successful registration redirects to login",
			form: url.Values{
				"username": {"newuser"},
				"password": {"password123"},
			},
			expectedStatus:   http.StatusFound,
			expectedLocation: "/login",
		},
		{
			name: "missing username",
			form: url.Values{
				"password": {"password123"},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing password",
			form: url.Values{
				"username": {"testuser"},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate username",
			form: url.Values{
				"username": {"existinguser"},
				"password": {"password123"},
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithUsername("existinguser").
					Build(t, ts.DB.DB)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Error registering new user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.DB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			resp := testutil.PostForm(t, ts.URL("/register"), tt.form)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedLocation != "" {
				assert.Equal(t, tt.expectedLocation, resp.Header.Get("Location"))
			}
			if tt.expectedBody != "" {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), tt.expectedBody)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, rawPassword := testutil.NewUserBuilder().
		WithUsername("loginuser").
		WithPassword("correctpassword").
		Build(t, ts.DB.DB)

	tests := []struct {
		name             string
		form             url.Values
		expectedLocation string
		expectCookie     bool
	}{
		{
			name: "successful login redirects to chat",
			form: url.Values{
				"username": {user.Username},
				"password": {rawPassword},
			},
			expectedLocation: "/chat",
			expectCookie:     true,
		},
		{
			name: "wrong password redirects to login",
			form: url.Values{
				"username": {user.Username},
				"password": {"wrongpassword"},
			},
			expectedLocation: "/login",
		},
		{
			name: "unknown user redirects to login",
			form: url.Values{
				"username": {"nosuchuser"},
				"password": {rawPassword},
			},
			expectedLocation: "/login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.PostForm(t, ts.URL("/login"), tt.form)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, tt.expectedLocation, resp.Header.Get("Location"))

			var sessionCookie *http.Cookie
			for _, c := range resp.Cookies() {
				if c.Name == "chat_session" {
					sessionCookie = c
				}
			}
			if tt.expectCookie {
				require.NotNil(t, sessionCookie)
				assert.NotEmpty(t, sessionCookie.Value)
				assert.True(t, sessionCookie.HttpOnly)
			} else {
				assert.Nil(t, sessionCookie)
			}
		})
	}
}

// Wrong password and unknown user must be indistinguishable to the caller.
func TestAuthHandler_LoginFailuresLookIdentical(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, _ := testutil.NewUserBuilder().
		WithUsername("realuser").
		Build(t, ts.DB.DB)

	wrongPassword := testutil.PostForm(t, ts.URL("/login"), url.Values{
		"username": {user.Username},
		"password": {"wrongpassword"},
	})
	defer wrongPassword.Body.Close()

	unknownUser := testutil.PostForm(t, ts.URL("/login"), url.Values{
		"username": {"ghost"},
		"password": {"whatever"},
	})
	defer unknownUser.Body.Close()

	assert.Equal(t, wrongPassword.StatusCode, unknownUser.StatusCode)
	assert.Equal(t, wrongPassword.Header.Get("Location"), unknownUser.Header.Get("Location"))
	assert.Empty(t, wrongPassword.Cookies())
	assert.Empty(t, unknownUser.Cookies())
}

func TestChatPage_RequiresSession(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("no session redirects to login", func(t *testing.T) {
		resp, err := testutil.NoRedirectClient().Get(ts.URL("/chat"))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
	})

	t.Run("live session serves the page", func(t *testing.T) {
		user, cookie := testutil.NewUserBuilder().BuildAndLogin(t, ts)

		req, err := http.NewRequest(http.MethodGet, ts.URL("/chat"), nil)
		require.NoError(t, err)
		req.AddCookie(cookie)

		resp, err := testutil.NoRedirectClient().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "Chat Room")
		assert.Contains(t, string(body), user.Username)
	})
}

func TestLogout_DestroysSession(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, cookie := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	logoutReq, err := http.NewRequest(http.MethodGet, ts.URL("/logout"), nil)
	require.NoError(t, err)
	logoutReq.AddCookie(cookie)

	resp, err := testutil.NoRedirectClient().Do(logoutReq)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	// Logging out again with the same cookie is not an error
	again, err := testutil.NoRedirectClient().Do(logoutReq.Clone(logoutReq.Context()))
	require.NoError(t, err)
	again.Body.Close()
	assert.Equal(t, http.StatusFound, again.StatusCode)

	// The old cookie no longer opens the chat page
	chatReq, err := http.NewRequest(http.MethodGet, ts.URL("/chat"), nil)
	require.NoError(t, err)
	chatReq.AddCookie(cookie)

	chatResp, err := testutil.NoRedirectClient().Do(chatReq)
	require.NoError(t, err)
	defer chatResp.Body.Close()

	assert.Equal(t, http.StatusFound, chatResp.StatusCode)
	assert.Equal(t, "/login", chatResp.Header.Get("Location"))
}

func TestRegisterThenLoginFlow(t *testing.T) {
	ts := testutil.NewTestServer(t)

	form := url.Values{
		"username": {"flowuser"},
		"password": {"flowpassword"},
	}

	registerResp := testutil.PostForm(t, ts.URL("/register"), form)
	registerResp.Body.Close()
	require.Equal(t, http.StatusFound, registerResp.StatusCode)
	require.Equal(t, "/login", registerResp.Header.Get("Location"))

	loginResp := testutil.PostForm(t, ts.URL("/login"), form)
	defer loginResp.Body.Close()
	assert.Equal(t, http.StatusFound, loginResp.StatusCode)
	assert.Equal(t, "/chat", loginResp.Header.Get("Location"))
	assert.NotEmpty(t, loginResp.Cookies())
}

func TestHealthCheck(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.URL("/health"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", strings.TrimSpace(string(body)))
}
