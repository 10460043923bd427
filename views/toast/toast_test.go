package toast

import (
	"fmt"
	"strings"
	"testing"

	"charm-dblog-tui/blog"
)

func TestQueue_NotifyAndListen(t *testing.T) {
	q := NewQueue(4)
	q.Notify(blog.LevelSuccess, "Wallet connected successfully")

	msg, ok := q.Listen()().(Msg)
	if !ok {
		t.Fatalf("expected toast.Msg")
	}
	if msg.Toast.Message != "Wallet connected successfully" || msg.Toast.Level != blog.LevelSuccess {
		t.Errorf("unexpected toast %+v", msg.Toast)
	}
	if msg.Toast.ID == "" {
		t.Errorf("toast should have an id")
	}
}

func TestQueue_DropsOldestWhenFull(t *testing.T) {
	q := NewQueue(2)
	q.Notify(blog.LevelInfo, "one")
	q.Notify(blog.LevelInfo, "two")
	q.Notify(blog.LevelInfo, "three")

	first := q.Listen()().(Msg)
	second := q.Listen()().(Msg)
	if first.Toast.Message != "two" || second.Toast.Message != "three" {
		t.Errorf("got %q, %q", first.Toast.Message, second.Toast.Message)
	}
}

func TestPushAndRemove(t *testing.T) {
	var list []Toast
	for i := 0; i < MaxVisible+2; i++ {
		list = Push(list, Toast{ID: fmt.Sprint(i), Message: fmt.Sprint(i)})
	}
	if len(list) != MaxVisible {
		t.Fatalf("expected %d toasts, got %d", MaxVisible, len(list))
	}
	if list[0].ID != "2" {
		t.Errorf("oldest toasts should be dropped first, got %s", list[0].ID)
	}

	list = Remove(list, "3")
	for _, ts := range list {
		if ts.ID == "3" {
			t.Errorf("toast 3 should be removed")
		}
	}
	if len(list) != MaxVisible-1 {
		t.Errorf("expected %d toasts, got %d", MaxVisible-1, len(list))
	}
}

func TestRender(t *testing.T) {
	if Render(nil, 80) != "" {
		t.Errorf("no toasts should render nothing")
	}
	out := Render([]Toast{{ID: "a", Level: blog.LevelError, Message: "Tip transaction rejected"}}, 80)
	if !strings.Contains(out, "Tip transaction rejected") {
		t.Errorf("render should contain the message: %q", out)
	}
}
