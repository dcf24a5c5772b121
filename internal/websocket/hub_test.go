package websocket

import (
	"encoding/json"
	"testing"
)

func TestKeysSeparateIdentitySpaces(t *testing.T) {
	if UserKey(42) == AdminKey(42) {
		t.Fatal("user and admin keys must not collide for the same id")
	}
	if got := UserKey(42); got != "user:42" {
		t.Fatalf("unexpected user key %q", got)
	}
	if got := AdminKey(7); got != "admin:7" {
		t.Fatalf("unexpected admin key %q", got)
	}
}

func TestBroadcastReachesOnlyMatchingKey(t *testing.T) {
	hub := NewHub()
	userClient := &Client{send: make(chan []byte, 1)}
	adminClient := &Client{send: make(chan []byte, 1)}
	hub.Register(UserKey(42), userClient)
	hub.Register(AdminKey(7), adminClient)

	hub.BroadcastMessage(AdminKey(7), MessageEvent{MessageID: 3, UserID: 42, AdminID: 7, Content: "hi", FromUser: true})

	select {
	case payload := <-adminClient.send:
		var event MessageEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if event.MessageID != 3 || !event.FromUser {
			t.Fatalf("unexpected event %+v", event)
		}
	default:
		t.Fatal("admin session did not receive the event")
	}

	select {
	case <-userClient.send:
		t.Fatal("user session received an event for another key")
	default:
	}
}

func TestBroadcastSkipsSlowClient(t *testing.T) {
	hub := NewHub()
	full := &Client{send: make(chan []byte)}
	hub.Register(UserKey(42), full)

	// Unbuffered channel with no reader; must not block the sender.
	hub.BroadcastMessage(UserKey(42), MessageEvent{MessageID: 1})
}

func TestUnregisterDropsEmptyKey(t *testing.T) {
	hub := NewHub()
	client := &Client{send: make(chan []byte, 1)}
	hub.Register(UserKey(42), client)
	hub.Unregister(UserKey(42), client)

	hub.BroadcastMessage(UserKey(42), MessageEvent{MessageID: 1})
	select {
	case <-client.send:
		t.Fatal("unregistered session received an event")
	default:
	}
}
