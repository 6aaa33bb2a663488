package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-relay/auth"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/runtime"
	"chat-relay/services"
)

type serverFixture struct {
	authService *mocks.MockIAuthService
	chatService *mocks.MockIChatService
	hub         *runtime.Hub
	handler     http.Handler
}

func newServerFixture(t *testing.T) serverFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	authService := mocks.NewMockIAuthService(ctrl)
	chatService := mocks.NewMockIChatService(ctrl)
	hub := runtime.NewHub(log)
	srv := New(log, authService, chatService, hub, 4)
	return serverFixture{
		authService: authService,
		chatService: chatService,
		hub:         hub,
		handler:     srv.Router(),
	}
}

func TestHandleLogin(t *testing.T) {
	t.Run("should return the token and set the session cookie", func(t *testing.T) {
		req := require.New(t)
		fixture := newServerFixture(t)

		fixture.authService.EXPECT().
			Login("alice", "p1").
			Return(services.Token("tok-123"), nil).
			Times(1)

		body := bytes.NewBufferString(`{"username":"alice","password":"p1"}`)
		recorder := httptest.NewRecorder()
		fixture.handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/login", body))

		req.Equal(http.StatusOK, recorder.Code)

		var response loginResponse
		req.NoError(json.NewDecoder(recorder.Body).Decode(&response))
		req.Equal("tok-123", response.Token)
		req.Equal("alice", response.Username)

		cookies := recorder.Result().Cookies()
		req.Len(cookies, 1)
		req.Equal(SessionCookieName, cookies[0].Name)
		req.Equal("tok-123", cookies[0].Value)
	})

	t.Run("should answer 403 on a wrong password without detail", func(t *testing.T) {
		req := require.New(t)
		fixture := newServerFixture(t)

		fixture.authService.EXPECT().
			Login("alice", "wrong").
			Return(services.Token(""), errors.ErrForbidden).
			Times(1)

		body := bytes.NewBufferString(`{"username":"alice","password":"wrong"}`)
		recorder := httptest.NewRecorder()
		fixture.handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/login", body))

		req.Equal(http.StatusForbidden, recorder.Code)
		req.NotContains(recorder.Body.String(), "password")
	})

	t.Run("should answer 400 on a malformed body", func(t *testing.T) {
		req := require.New(t)
		fixture := newServerFixture(t)

		recorder := httptest.NewRecorder()
		fixture.handler.ServeHTTP(recorder,
			httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{")))
		req.Equal(http.StatusBadRequest, recorder.Code)
	})
}

func TestHandleGetMessages(t *testing.T) {
	t.Run("should pass the cursor through and return the messages", func(t *testing.T) {
		req := require.New(t)
		fixture := newServerFixture(t)

		fixture.chatService.EXPECT().
			GetMessages(uint64(2)).
			Return([]domain.Message{{Position: 3, Author: "alice", Body: "three"}}, nil).
			Times(1)

		recorder := httptest.NewRecorder()
		fixture.handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/messages?from=2", nil))

		req.Equal(http.StatusOK, recorder.Code)
		var response []messageResponse
		req.NoError(json.NewDecoder(recorder.Body).Decode(&response))
		req.Len(response, 1)
		req.Equal(uint64(3), response[0].Position)
	})

	t.Run("should default to the whole log without a cursor", func(t *testing.T) {
		req := require.New(t)
		fixture := newServerFixture(t)

		fixture.chatService.EXPECT().
			GetMessages(uint64(0)).
			Return(nil, nil).
			Times(1)

		recorder := httptest.NewRecorder()
		fixture.handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/messages", nil))
		req.Equal(http.StatusOK, recorder.Code)
	})

	t.Run("should reject a non-numeric cursor", func(t *testing.T) {
		req := require.New(t)
		fixture := newServerFixture(t)

		recorder := httptest.NewRecorder()
		fixture.handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/messages?from=abc", nil))
		req.Equal(http.StatusBadRequest, recorder.Code)
	})
}

func TestHandlePostMessage(t *testing.T) {
	postRequest := func(body string, cookie string) *http.Request {
		request := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(body))
		if cookie != "" {
			request.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookie})
		}
		return request
	}

	t.Run("should answer 201 with the appended message", func(t *testing.T) {
		req := require.New(t)
		fixture := newServerFixture(t)

		fixture.chatService.EXPECT().
			PostMessage(gomock.Any(), "tok-123", auth.PostMessageRequest{Username: "alice", Body: "hi"}).
			Return(domain.Message{Position: 1, Author: "alice", Body: "hi", CreatedAt: time.Now().UTC()}, nil).
			Times(1)

		recorder := httptest.NewRecorder()
		fixture.handler.ServeHTTP(recorder,
			postRequest(`{"username":"alice","body":"hi"}`, "tok-123"))

		req.Equal(http.StatusCreated, recorder.Code)
		var response messageResponse
		req.NoError(json.NewDecoder(recorder.Body).Decode(&response))
		req.Equal(uint64(1), response.Position)
		req.Equal("alice", response.Author)
	})

	t.Run("should answer 401 without a session", func(t *testing.T) {
		req := require.New(t)
		fixture := newServerFixture(t)

		fixture.chatService.EXPECT().
			PostMessage(gomock.Any(), "", gomock.Any()).
			Return(domain.Message{}, errors.ErrUnauthenticated).
			Times(1)

		recorder := httptest.NewRecorder()
		fixture.handler.ServeHTTP(recorder,
			postRequest(`{"username":"alice","body":"hi"}`, ""))
		req.Equal(http.StatusUnauthorized, recorder.Code)
	})

	t.Run("should answer 403 when posting as someone else", func(t *testing.T) {
		req := require.New(t)
		fixture := newServerFixture(t)

		fixture.chatService.EXPECT().
			PostMessage(gomock.Any(), "tok-123", gomock.Any()).
			Return(domain.Message{}, errors.ErrForbidden).
			Times(1)

		recorder := httptest.NewRecorder()
		fixture.handler.ServeHTTP(recorder,
			postRequest(`{"username":"bob","body":"hi"}`, "tok-123"))
		req.Equal(http.StatusForbidden, recorder.Code)
	})

	t.Run("should reject an empty body before touching the service", func(t *testing.T) {
		req := require.New(t)
		fixture := newServerFixture(t)

		recorder := httptest.NewRecorder()
		fixture.handler.ServeHTTP(recorder,
			postRequest(`{"username":"alice","body":""}`, "tok-123"))
		req.Equal(http.StatusBadRequest, recorder.Code)
	})
}

func TestHandleWebsocket(t *testing.T) {
	t.Run("should push a refresh signal on broadcast", func(t *testing.T) {
		req := require.New(t)
		fixture := newServerFixture(t)

		testServer := httptest.NewServer(fixture.handler)
		defer testServer.Close()

		url := "ws" + strings.TrimPrefix(testServer.URL, "http") + "/ws"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		req.NoError(err)
		defer conn.Close()

		// Registration happens inside the handler goroutine
		req.Eventually(func() bool { return fixture.hub.Len() == 1 },
			time.Second, 10*time.Millisecond)

		fixture.hub.Broadcast()

		req.NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
		_, payload, err := conn.ReadMessage()
		req.NoError(err)
		req.JSONEq(`{"type":"refresh"}`, string(payload))
	})

	t.Run("should deregister once the client disconnects", func(t *testing.T) {
		req := require.New(t)
		fixture := newServerFixture(t)

		testServer := httptest.NewServer(fixture.handler)
		defer testServer.Close()

		url := "ws" + strings.TrimPrefix(testServer.URL, "http") + "/ws"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		req.NoError(err)
		req.Eventually(func() bool { return fixture.hub.Len() == 1 },
			time.Second, 10*time.Millisecond)

		req.NoError(conn.Close())
		req.Eventually(func() bool { return fixture.hub.Len() == 0 },
			time.Second, 10*time.Millisecond)
	})
}
