// Package handlers contains the HTTP route handlers: static pages, the
// registration/login forms, and the websocket upgrade endpoint.
package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/ali-khaled-949/myChatApp/internal/api/middleware"
	"github.com/ali-khaled-949/myChatApp/internal/domain"
	"github.com/ali-khaled-949/myChatApp/internal/service"
)

func servePage(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := fmt.Fprint(w, html); err != nil {
		log.Printf("Error writing HTML response: %v", err)
	}
}

// HomePage serves the landing page.
func HomePage(w http.ResponseWriter, _ *http.Request) {
	servePage(w, homeHTML)
}

// LoginPage serves the login form.
func LoginPage(w http.ResponseWriter, _ *http.Request) {
	servePage(w, loginHTML)
}

// RegisterPage serves the registration form.
func RegisterPage(w http.ResponseWriter, _ *http.Request) {
	servePage(w, registerHTML)
}

type PageHandler struct {
	authService *service.AuthService
}

func NewPageHandler(authService *service.AuthService) *PageHandler {
	return &PageHandler{authService: authService}
}

// Chat serves the chat room page, greeting the logged-in user. The route is
// wrapped in the auth middleware, so the identity is already in the context;
// a session pointing at a deleted user reads as not authenticated.
func (h *PageHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		log.Printf("ERROR [handlers.Chat] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	servePage(w, fmt.Sprintf(chatHTML, template.HTMLEscapeString(user.Username)))
}

const homeHTML = `<!DOCTYPE html>
<html>
<head><title>Chat</title></head>
<body>
    <h1>Welcome</h1>
    <p><a href="/login">Login</a> or <a href="/register">Register</a> to join the chat.</p>
</body>
</html>`

const loginHTML = `<!DOCTYPE html>
<html>
<head><title>Login</title></head>
<body>
    <h1>Login</h1>
    <form action="/login" method="POST">
        <input type="text" name="username" placeholder="Username" required>
        <input type="password" name="password" placeholder="Password" required>
        <button type="submit">Login</button>
    </form>
    <p>No account? <a href="/register">Register</a></p>
</body>
</html>`

const registerHTML = `<!DOCTYPE html>
<html>
<head><title>Register</title></head>
<body>
    <h1>Register</h1>
    <form action="/register" method="POST">
        <input type="text" name="username" placeholder="Username" required>
        <input type="password" name="password" placeholder="Password" required>
        <button type="submit">Register</button>
    </form>
    <p>Already registered? <a href="/login">Login</a></p>
</body>
</html>`

const chatHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Chat</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        #messages {
            border: 1px solid #ccc;
            height: 300px;
            padding: 10px;
            overflow-y: scroll;
            margin: 10px 0;
            background-color: #f9f9f9;
        }
        input[type="text"] { width: 300px; padding: 5px; margin-right: 10px; }
        button { padding: 5px 15px; cursor: pointer; }
    </style>
</head>
<body>
    <h1>Chat Room</h1>
    <p>Logged in as <strong>%s</strong> &middot; <a href="/logout">Logout</a></p>

    <div id="messages"></div>

    <div>
        <input type="text" id="messageInput" placeholder="Type a message...">
        <button onclick="sendMessage()">Send</button>
    </div>

    <script>
        const messagesDiv = document.getElementById('messages');
        const messageInput = document.getElementById('messageInput');

        const proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
        const ws = new WebSocket(proto + location.host + '/ws');

        ws.onmessage = function(event) {
            const msg = JSON.parse(event.data);
            if (msg.event !== 'chat message') {
                return;
            }
            const el = document.createElement('div');
            el.textContent = msg.data;
            messagesDiv.appendChild(el);
            messagesDiv.scrollTop = messagesDiv.scrollHeight;
        };

        ws.onclose = function() {
            const el = document.createElement('div');
            el.innerHTML = '<em>Connection closed</em>';
            messagesDiv.appendChild(el);
        };

        function sendMessage() {
            const text = messageInput.value.trim();
            if (text && ws.readyState === WebSocket.OPEN) {
                ws.send(JSON.stringify({event: 'chat message', data: text}));
                messageInput.value = '';
            }
        }

        messageInput.addEventListener('keypress', function(e) {
            if (e.key === 'Enter') {
                sendMessage();
            }
        });
    </script>
</body>
</html>`
