package live

import (
	"encoding/json"
	"testing"
	"time"

	"vantage/models"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// create fake client
	client := &Client{
		Send: make(chan []byte, 10),
		Room: DashboardRoom,
	}

	// register client
	hub.register <- client

	// broadcast a test message
	msg := outboundPayload{Action: "download-created", ID: "a1"}
	data, _ := json.Marshal(msg)
	hub.broadcast <- broadcastMsg{Room: DashboardRoom, Data: data}

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	// unregister client
	hub.unregister <- client
}

func TestUnregisterAfterSlowClientKick(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// unbuffered Send with no reader: the broadcast kicks this client out
	slow := &Client{
		Send: make(chan []byte),
		Room: DashboardRoom,
	}
	hub.register <- slow
	hub.broadcast <- broadcastMsg{Room: DashboardRoom, Data: []byte(`{}`)}

	// the readPump teardown still fires; it must not close Send twice
	hub.unregister <- slow

	// hub must still serve later clients
	ok := &Client{
		Send: make(chan []byte, 1),
		Room: DashboardRoom,
	}
	hub.register <- ok
	hub.broadcast <- broadcastMsg{Room: DashboardRoom, Data: []byte(`{"action":"ping"}`)}

	select {
	case got := <-ok.Send:
		if len(got) == 0 {
			t.Fatal("empty broadcast payload")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("hub stopped delivering after kicked client unregistered")
	}
	hub.unregister <- ok
}

func TestBroadcastActivityReachesDashboardRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: DashboardRoom,
	}
	hub.register <- client

	act := models.Activity{
		ActivityID: "a42",
		UserID:     "u1",
		Action:     "version-created",
		EntityType: "version",
		EntityID:   "v1",
		CreatedAt:  time.Unix(1700000000, 0),
	}
	go hub.BroadcastActivity(act)

	select {
	case got := <-client.Send:
		var out outboundPayload
		if err := json.Unmarshal(got, &out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if out.ID != "a42" || out.Action != "version-created" || out.Timestamp != 1700000000 {
			t.Fatalf("unexpected payload: %+v", out)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for activity")
	}

	hub.unregister <- client
}
