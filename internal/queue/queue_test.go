package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestInMemoryPublishConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	body, _ := json.Marshal(map[string]string{"to": "a@x.com"})
	if err := q.Publish(ctx, Message{Type: TypeMail, Body: body}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	msgs, err := q.Consume(ctx)
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	select {
	case msg := <-msgs:
		if msg.Type != TypeMail {
			t.Fatalf("type = %q", msg.Type)
		}
		if string(msg.Body) != string(body) {
			t.Fatalf("body = %s", msg.Body)
		}
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}
}

func TestInMemoryPublishHonorsContext(t *testing.T) {
	q := NewInMemory(1)
	ctx := context.Background()
	if err := q.Publish(ctx, Message{Type: TypeMail}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	full, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	if err := q.Publish(full, Message{Type: TypeMail}); err == nil {
		t.Fatal("publish to a full queue should fail when the context expires")
	}
}
