package handlers_test

import (
	"testing"

	"github.com/mkorneev/tarobot/internal/bot/handlers"
)

func TestQuestionCache(t *testing.T) {
	t.Parallel()

	c := handlers.NewQuestionCache()

	id := c.Put("will it rain tomorrow?")
	if id == "" {
		t.Fatal("Put() returned an empty id")
	}

	got, ok := c.Get(id)
	if !ok {
		t.Fatal("Get() did not find a stored question")
	}
	if got != "will it rain tomorrow?" {
		t.Errorf("Get() = %q", got)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("Get() found a question that was never stored")
	}
}

func TestQuestionCacheEviction(t *testing.T) {
	t.Parallel()

	c := handlers.NewQuestionCache()

	first := c.Put("the oldest question")
	var last string
	for i := 0; i < 1000; i++ {
		last = c.Put("filler")
	}

	if _, ok := c.Get(first); ok {
		t.Error("oldest entry survived past the cache limit")
	}
	if _, ok := c.Get(last); !ok {
		t.Error("newest entry was evicted")
	}
}
