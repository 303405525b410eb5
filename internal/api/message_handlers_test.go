package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"potato-chat/internal/channel"
	"potato-chat/internal/events"
	"potato-chat/internal/store"
	"potato-chat/internal/user"
)

func messageRouter(s store.Store, hub *events.Hub, id uint, username string, role user.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(authAs(id, username, role))
	r.GET("/channels/:id/messages", ListMessagesHandler(s))
	r.POST("/channels/:id/messages", SendMessageHandler(testPolicy, s, hub))
	r.DELETE("/messages/:id", DeleteMessageHandler(testPolicy, s))
	return r
}

func TestSendMessage_UnlockedChannel(t *testing.T) {
	s := setupTestStore(t)
	hub := events.NewHub()
	ch, _ := s.CreateChannel("general", false)
	r := messageRouter(s, hub, 1, "alice", user.RoleUser)

	w := doJSON(t, r, "POST", "/channels/1/messages", map[string]string{"content": "hi"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	msgs, _ := s.ListMessages(ch.ID)
	if len(msgs) != 1 || msgs[0].Author != "alice" || msgs[0].Content != "hi" {
		t.Errorf("message not stored as expected: %+v", msgs)
	}
}

func TestSendMessage_LockedChannel(t *testing.T) {
	s := setupTestStore(t)
	hub := events.NewHub()
	s.CreateChannel("announcements", true)

	member := messageRouter(s, hub, 1, "alice", user.RoleUser)
	w := doJSON(t, member, "POST", "/channels/1/messages", map[string]string{"content": "pssst"})
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for member in locked channel, got %d", w.Code)
	}

	admin := messageRouter(s, hub, 2, testReservedAdmin, user.RoleAdmin)
	w = doJSON(t, admin, "POST", "/channels/1/messages", map[string]string{"content": "attention"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin in locked channel, got %d: %s", w.Code, w.Body.String())
	}
	msgs, _ := s.ListMessages(1)
	if len(msgs) != 1 || msgs[0].Author != testReservedAdmin {
		t.Errorf("admin message missing: %+v", msgs)
	}
}

func TestSendMessage_EmptyContent(t *testing.T) {
	s := setupTestStore(t)
	hub := events.NewHub()
	s.CreateChannel("general", false)
	r := messageRouter(s, hub, 1, "alice", user.RoleUser)

	w := doJSON(t, r, "POST", "/channels/1/messages", map[string]string{"content": "   "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for whitespace-only content, got %d", w.Code)
	}
}

func TestSendMessage_ChannelNotFound(t *testing.T) {
	s := setupTestStore(t)
	hub := events.NewHub()
	r := messageRouter(s, hub, 1, "alice", user.RoleUser)

	w := doJSON(t, r, "POST", "/channels/42/messages", map[string]string{"content": "hello?"})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing channel, got %d", w.Code)
	}
}

func TestSendMessage_BroadcastsToSubscribers(t *testing.T) {
	s := setupTestStore(t)
	hub := events.NewHub()
	ch, _ := s.CreateChannel("general", false)
	subID, stream := hub.Subscribe(ch.ID)
	defer hub.Unsubscribe(ch.ID, subID)

	r := messageRouter(s, hub, 1, "alice", user.RoleUser)
	w := doJSON(t, r, "POST", "/channels/1/messages", map[string]string{"content": "live"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	select {
	case ev := <-stream:
		if ev.Type != "message" || ev.Message == nil || ev.Message.Content != "live" {
			t.Errorf("unexpected event: %+v", ev)
		}
	default:
		t.Errorf("expected a broadcast event")
	}
}

func TestListMessages_AppendOrder(t *testing.T) {
	s := setupTestStore(t)
	hub := events.NewHub()
	ch, _ := s.CreateChannel("general", false)
	r := messageRouter(s, hub, 1, "alice", user.RoleUser)
	for _, content := range []string{"one", "two", "three"} {
		w := doJSON(t, r, "POST", "/channels/1/messages", map[string]string{"content": content})
		if w.Code != http.StatusCreated {
			t.Fatalf("append %q: got %d", content, w.Code)
		}
	}

	w := doJSON(t, r, "GET", "/channels/1/messages", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var msgs []channel.Message
	if err := json.Unmarshal(w.Body.Bytes(), &msgs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	want := []string{"one", "two", "three"}
	for i, wContent := range want {
		if msgs[i].Content != wContent {
			t.Errorf("position %d: expected %q, got %q", i, wContent, msgs[i].Content)
		}
		if msgs[i].ChannelID != ch.ID {
			t.Errorf("wrong channel id on message %d", i)
		}
	}
}

func TestListMessages_ChannelNotFound(t *testing.T) {
	s := setupTestStore(t)
	hub := events.NewHub()
	r := messageRouter(s, hub, 1, "alice", user.RoleUser)
	w := doJSON(t, r, "GET", "/channels/9/messages", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing channel, got %d", w.Code)
	}
}

func TestDeleteMessage_AuthorOrAdmin(t *testing.T) {
	s := setupTestStore(t)
	hub := events.NewHub()
	s.CreateChannel("general", false)

	alice := messageRouter(s, hub, 1, "alice", user.RoleUser)
	doJSON(t, alice, "POST", "/channels/1/messages", map[string]string{"content": "mine"})
	doJSON(t, alice, "POST", "/channels/1/messages", map[string]string{"content": "also mine"})

	// Another member cannot delete alice's message
	bob := messageRouter(s, hub, 2, "bob", user.RoleUser)
	w := doJSON(t, bob, "DELETE", "/messages/1", nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-author, got %d", w.Code)
	}

	// The author can
	w = doJSON(t, alice, "DELETE", "/messages/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for author, got %d: %s", w.Code, w.Body.String())
	}

	// Admin can delete anyone's
	admin := messageRouter(s, hub, 3, testReservedAdmin, user.RoleAdmin)
	w = doJSON(t, admin, "DELETE", "/messages/2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, admin, "DELETE", "/messages/2", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for already-deleted message, got %d", w.Code)
	}
}
