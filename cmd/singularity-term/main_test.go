package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

// fakeScreen yields events forever, like a busy terminal.
type fakeScreen struct{}

func (fakeScreen) PollEvent() tcell.Event {
	return tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)
}

// finishedScreen behaves like a finalized screen.
type finishedScreen struct{}

func (finishedScreen) PollEvent() tcell.Event { return nil }

func TestPollEventsStopsWhenDone(t *testing.T) {
	events := make(chan tcell.Event, 1)
	done := make(chan struct{})
	returned := make(chan struct{})
	go func() {
		pollEvents(fakeScreen{}, events, done)
		close(returned)
	}()

	// Nobody reads: the buffer fills and the poller blocks on send.
	time.Sleep(20 * time.Millisecond)
	close(done)

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("poller still blocked after done was closed")
	}
}

func TestPollEventsClosesOnFinalizedScreen(t *testing.T) {
	events := make(chan tcell.Event, 1)
	pollEvents(finishedScreen{}, events, make(chan struct{}))
	if _, ok := <-events; ok {
		t.Error("events channel left open")
	}
}
