package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"potato-chat/internal/auth"
	"potato-chat/internal/channel"
	"potato-chat/internal/store"
	"potato-chat/internal/user"
)

const testReservedAdmin = "very-fried-potato"

var testPolicy = auth.Policy{ReservedAdmin: testReservedAdmin}

func channelRouter(s store.Store, id uint, username string, role user.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(authAs(id, username, role))
	r.GET("/channels", ListChannelsHandler(s))
	r.POST("/channels", CreateChannelHandler(testPolicy, s))
	r.PUT("/channels/:id", RenameChannelHandler(testPolicy, s))
	r.PUT("/channels/:id/lock", SetChannelLockedHandler(testPolicy, s))
	r.DELETE("/channels/:id", DeleteChannelHandler(testPolicy, s))
	return r
}

func TestListChannels_CreationOrder(t *testing.T) {
	s := setupTestStore(t)
	for _, name := range []string{"welcome", "general", "announcements"} {
		if _, err := s.CreateChannel(name, false); err != nil {
			t.Fatalf("seed channel: %v", err)
		}
	}
	r := channelRouter(s, 1, "alice", user.RoleUser)

	w := doJSON(t, r, "GET", "/channels", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	welcome := strings.Index(body, "welcome")
	general := strings.Index(body, "general")
	announcements := strings.Index(body, "announcements")
	if welcome < 0 || general < 0 || announcements < 0 {
		t.Fatalf("missing channels in response: %s", body)
	}
	if !(welcome < general && general < announcements) {
		t.Errorf("channels not in creation order: %s", body)
	}
}

func TestCreateChannel_AdminOnly(t *testing.T) {
	s := setupTestStore(t)

	member := channelRouter(s, 1, "alice", user.RoleUser)
	w := doJSON(t, member, "POST", "/channels", map[string]string{"name": "plots"})
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for member, got %d", w.Code)
	}

	admin := channelRouter(s, 2, testReservedAdmin, user.RoleAdmin)
	w = doJSON(t, admin, "POST", "/channels", map[string]string{"name": "plots"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin, got %d: %s", w.Code, w.Body.String())
	}
	channels, _ := s.ListChannels()
	if len(channels) != 1 || channels[0].Name != "plots" {
		t.Errorf("channel not stored: %+v", channels)
	}
}

func TestCreateChannel_EmptyName(t *testing.T) {
	s := setupTestStore(t)
	admin := channelRouter(s, 1, testReservedAdmin, user.RoleAdmin)
	w := doJSON(t, admin, "POST", "/channels", map[string]string{"name": "   "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank name, got %d", w.Code)
	}
}

func TestRenameChannel(t *testing.T) {
	s := setupTestStore(t)
	ch, _ := s.CreateChannel("general", false)
	admin := channelRouter(s, 1, testReservedAdmin, user.RoleAdmin)

	w := doJSON(t, admin, "PUT", "/channels/1", map[string]string{"name": "lounge"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	got, _ := s.GetChannel(ch.ID)
	if got.Name != "lounge" {
		t.Errorf("rename not persisted: %q", got.Name)
	}

	w = doJSON(t, admin, "PUT", "/channels/999", map[string]string{"name": "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing channel, got %d", w.Code)
	}

	member := channelRouter(s, 2, "alice", user.RoleUser)
	w = doJSON(t, member, "PUT", "/channels/1", map[string]string{"name": "mine"})
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for member, got %d", w.Code)
	}
}

func TestSetChannelLocked(t *testing.T) {
	s := setupTestStore(t)
	ch, _ := s.CreateChannel("general", false)
	admin := channelRouter(s, 1, testReservedAdmin, user.RoleAdmin)

	w := doJSON(t, admin, "PUT", "/channels/1/lock", map[string]bool{"locked": true})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	got, _ := s.GetChannel(ch.ID)
	if !got.Locked {
		t.Errorf("lock not persisted")
	}

	w = doJSON(t, admin, "PUT", "/channels/1/lock", map[string]bool{"locked": false})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	got, _ = s.GetChannel(ch.ID)
	if got.Locked {
		t.Errorf("unlock not persisted")
	}

	w = doJSON(t, admin, "PUT", "/channels/999/lock", map[string]bool{"locked": true})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing channel, got %d", w.Code)
	}
}

func TestDeleteChannel_CascadesAndGuards(t *testing.T) {
	s := setupTestStore(t)
	ch, _ := s.CreateChannel("doomed", false)
	msg := channel.Message{ChannelID: ch.ID, Author: "alice", Content: "bye"}
	if err := s.AppendMessage(&msg); err != nil {
		t.Fatalf("append: %v", err)
	}

	member := channelRouter(s, 1, "alice", user.RoleUser)
	w := doJSON(t, member, "DELETE", "/channels/1", nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for member, got %d", w.Code)
	}

	admin := channelRouter(s, 2, testReservedAdmin, user.RoleAdmin)
	w = doJSON(t, admin, "DELETE", "/channels/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if _, err := s.GetChannel(ch.ID); err == nil {
		t.Errorf("channel should be gone")
	}
	if _, err := s.GetMessage(msg.ID); err == nil {
		t.Errorf("messages should be cascaded")
	}

	w = doJSON(t, admin, "DELETE", "/channels/1", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", w.Code)
	}
}
