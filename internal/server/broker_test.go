package server

import (
	"encoding/json"
	"testing"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker()

	ch := b.Subscribe("DEMO")
	defer b.Unsubscribe("DEMO", ch)

	b.Publish("DEMO", Event{Type: "player_joined", PlayerName: "Maria"})

	select {
	case data := <-ch:
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.Type != "player_joined" || ev.PlayerName != "Maria" {
			t.Errorf("event = %+v", ev)
		}
	default:
		t.Fatal("no event received")
	}
}

func TestBrokerIsolatesGames(t *testing.T) {
	b := NewBroker()

	ch := b.Subscribe("AAAA")
	defer b.Unsubscribe("AAAA", ch)

	b.Publish("BBBB", Event{Type: "game_started"})

	select {
	case data := <-ch:
		t.Fatalf("unexpected event: %s", data)
	default:
	}
}

func TestBrokerDropsWhenSubscriberIsFull(t *testing.T) {
	b := NewBroker()

	ch := b.Subscribe("DEMO")
	defer b.Unsubscribe("DEMO", ch)

	// Channel buffer is 16; publishing more must not block.
	for i := 0; i < 40; i++ {
		b.Publish("DEMO", Event{Type: "answer_submitted"})
	}

	if got := len(ch); got != 16 {
		t.Errorf("buffered = %d, want 16", got)
	}
}
