// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package ticketstore_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/kanban-foundation/kanban/lib/clock"
	"github.com/kanban-foundation/kanban/lib/schema/ticket"
	"github.com/kanban-foundation/kanban/lib/ticketstore"
)

var epoch = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) (*ticketstore.Store, *clock.FakeClock) {
	t.Helper()
	fake := clock.Fake(epoch)
	sequence := 0
	var mu sync.Mutex
	store, err := ticketstore.Open(context.Background(), ticketstore.Config{
		Path:  filepath.Join(t.TempDir(), "tickets.db"),
		Clock: fake,
		NewID: func() string {
			mu.Lock()
			defer mu.Unlock()
			sequence++
			return fmt.Sprintf("t-%d", sequence)
		},
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return store, fake
}

func newTicket(title string) ticket.Ticket {
	return ticket.Ticket{
		Title:       title,
		Description: title + " description",
		Priority:    ticket.PriorityMedium,
		Status:      ticket.StatusTodo,
	}
}

func TestCreateFillsGeneratedFields(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, newTicket("Write docs"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != "t-1" {
		t.Errorf("ID = %q, want %q", created.ID, "t-1")
	}
	if !created.CreatedAt.Equal(epoch) || !created.UpdatedAt.Equal(epoch) {
		t.Errorf("timestamps = %v / %v, want %v", created.CreatedAt, created.UpdatedAt, epoch)
	}
	if created.Labels == nil || len(created.Labels) != 0 {
		t.Errorf("Labels = %#v, want empty non-nil slice", created.Labels)
	}

	got, err := store.Get(ctx, "t-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Write docs" || got.Status != ticket.StatusTodo || got.Priority != ticket.PriorityMedium {
		t.Errorf("Get = %+v, want the created ticket", got)
	}
	if !got.CreatedAt.Equal(epoch) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, epoch)
	}
}

func TestCreateKeepsSuppliedID(t *testing.T) {
	store, _ := openTestStore(t)
	item := newTicket("Fixed id")
	item.ID = "custom"
	created, err := store.Create(context.Background(), item)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != "custom" {
		t.Errorf("ID = %q, want %q", created.ID, "custom")
	}

	if _, err := store.Create(context.Background(), item); err == nil {
		t.Error("Create with a duplicate id succeeded, want an error")
	}
}

func TestLabelsRoundTrip(t *testing.T) {
	store, _ := openTestStore(t)
	item := newTicket("Labelled")
	item.Labels = []string{"ui", "backend", "ünïcode"}
	created, err := store.Create(context.Background(), item)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !slices.Equal(got.Labels, item.Labels) {
		t.Errorf("Labels = %v, want %v", got.Labels, item.Labels)
	}
}

func TestListOrdersByCreation(t *testing.T) {
	store, fake := openTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		if _, err := store.Create(ctx, newTicket(title)); err != nil {
			t.Fatalf("Create %s: %v", title, err)
		}
		fake.Advance(time.Minute)
	}
	// An explicit older timestamp sorts first.
	early := newTicket("backdated")
	early.CreatedAt = epoch.Add(-time.Hour)
	if _, err := store.Create(ctx, early); err != nil {
		t.Fatalf("Create backdated: %v", err)
	}

	tickets, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var titles []string
	for _, item := range tickets {
		titles = append(titles, item.Title)
	}
	want := []string{"backdated", "first", "second", "third"}
	if !slices.Equal(titles, want) {
		t.Errorf("List order = %v, want %v", titles, want)
	}
}

func TestListEmpty(t *testing.T) {
	store, _ := openTestStore(t)
	tickets, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if tickets == nil || len(tickets) != 0 {
		t.Errorf("List = %#v, want empty non-nil slice", tickets)
	}
}

func TestUpdate(t *testing.T) {
	store, fake := openTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, newTicket("Move me"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	fake.Advance(time.Hour)

	request := ticket.UpdateTicketRequest{
		Status: ticket.Ptr(ticket.StatusInProgress),
		Labels: &[]string{"moved"},
	}
	updated, err := store.Update(ctx, created.ID, request.Apply)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != ticket.StatusInProgress {
		t.Errorf("Status = %q, want %q", updated.Status, ticket.StatusInProgress)
	}
	if !updated.CreatedAt.Equal(epoch) {
		t.Errorf("CreatedAt = %v, want unchanged %v", updated.CreatedAt, epoch)
	}
	if want := epoch.Add(time.Hour); !updated.UpdatedAt.Equal(want) {
		t.Errorf("UpdatedAt = %v, want %v", updated.UpdatedAt, want)
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != ticket.StatusInProgress || !slices.Equal(got.Labels, []string{"moved"}) {
		t.Errorf("stored ticket = %+v, want the update applied", got)
	}
	if got.Title != "Move me" {
		t.Errorf("Title = %q, want unchanged", got.Title)
	}
}

func TestUpdateCannotChangeID(t *testing.T) {
	store, _ := openTestStore(t)
	created, err := store.Create(context.Background(), newTicket("Pinned"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	updated, err := store.Update(context.Background(), created.ID, func(item ticket.Ticket) ticket.Ticket {
		item.ID = "other"
		return item
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("ID = %q, want %q", updated.ID, created.ID)
	}
}

func TestNotFound(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ticketstore.ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
	identity := func(item ticket.Ticket) ticket.Ticket { return item }
	if _, err := store.Update(ctx, "missing", identity); !errors.Is(err, ticketstore.ErrNotFound) {
		t.Errorf("Update error = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "missing"); !errors.Is(err, ticketstore.ErrNotFound) {
		t.Errorf("Delete error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, newTicket("Doomed"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("Count = %d, want 0", count)
	}
	if err := store.Delete(ctx, created.ID); !errors.Is(err, ticketstore.ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}
}

func TestConcurrentUpdates(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, newTicket("Counter"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, created.ID, func(item ticket.Ticket) ticket.Ticket {
				item.Labels = append(item.Labels, "x")
				return item
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Labels) != writers {
		t.Errorf("got %d labels, want %d (an update was lost)", len(got.Labels), writers)
	}
}
