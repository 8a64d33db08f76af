// Copyright (c) 2026 Forge Journal Media <dev@forgejournal.com>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"forgejournal/internal/models"
)

// testAuthor inserts a throwaway author for post tests.
func testAuthor(t *testing.T, db *sql.DB, slug string) *models.Author {
	t.Helper()
	authors := NewAuthorStore(db)
	a, err := authors.Create(context.Background(), &models.Author{
		Name: "Test Smith",
		Slug: slug,
	})
	if err != nil {
		t.Fatalf("create test author: %v", err)
	}
	t.Cleanup(func() { cleanAuthors(t, db, slug) })
	return a
}

func TestPostCreateAndFind(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	author := testAuthor(t, db, "post-create-author")
	cleanPosts(t, db, "anvil-care")
	t.Cleanup(func() { cleanPosts(t, db, "anvil-care") })

	excerpt := "Keeping the face true."
	created, err := posts.Create(context.Background(), &models.Post{
		Title:    "Anvil Care",
		Slug:     "anvil-care",
		Body:     "Wipe the face down after every session.",
		Excerpt:  &excerpt,
		AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("Create did not assign an ID")
	}
	if created.Status != models.PostStatusDraft {
		t.Errorf("status = %q, want draft (new posts start as drafts)", created.Status)
	}
	if created.ScheduledPublishAt != nil || created.PublishedAt != nil {
		t.Error("new post has lifecycle timestamps set")
	}

	found, err := posts.Find(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if found == nil {
		t.Fatal("Find returned nil for an existing post")
	}
	if found.Title != "Anvil Care" || found.Excerpt == nil || *found.Excerpt != excerpt {
		t.Errorf("found post = %+v", found)
	}
}

func TestPostFindMissing(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)

	found, err := posts.Find(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if found != nil {
		t.Errorf("Find = %+v, want nil for a missing post", found)
	}
}

func TestPostTransitionCompareAndSet(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	author := testAuthor(t, db, "post-cas-author")
	cleanPosts(t, db, "cas-post")
	t.Cleanup(func() { cleanPosts(t, db, "cas-post") })

	created, err := posts.Create(context.Background(), &models.Post{
		Title: "CAS Post", Slug: "cas-post", Body: "b", AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// draft -> scheduled
	at := time.Now().Add(time.Hour).UTC().Truncate(time.Microsecond)
	next := *created
	next.Status = models.PostStatusScheduled
	next.ScheduledPublishAt = &at
	ok, err := posts.Transition(context.Background(), &next, models.PostStatusDraft, nil)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if !ok {
		t.Fatal("Transition from draft failed on a fresh draft")
	}

	// A second writer still expecting draft loses.
	ok, err = posts.Transition(context.Background(), &next, models.PostStatusDraft, nil)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if ok {
		t.Error("Transition succeeded with a stale expected status")
	}

	// A writer expecting the wrong scheduled time loses.
	wrongAt := at.Add(time.Minute)
	fired := next
	fired.Status = models.PostStatusPublished
	fired.ScheduledPublishAt = nil
	now := time.Now().UTC()
	fired.PublishedAt = &now
	ok, err = posts.Transition(context.Background(), &fired, models.PostStatusScheduled, &wrongAt)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if ok {
		t.Error("Transition succeeded with a stale expected scheduled time")
	}

	// The writer holding the current scheduled time wins.
	ok, err = posts.Transition(context.Background(), &fired, models.PostStatusScheduled, &at)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if !ok {
		t.Fatal("Transition failed with the correct expectations")
	}

	final, err := posts.Find(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if final.Status != models.PostStatusPublished {
		t.Errorf("status = %q, want published", final.Status)
	}
	if final.ScheduledPublishAt != nil {
		t.Error("scheduled_publish_at not cleared by publish")
	}
	if final.PublishedAt == nil {
		t.Error("published_at not set by publish")
	}
}

func TestPostTransitionPublishedAtWriteOnce(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	author := testAuthor(t, db, "post-once-author")
	cleanPosts(t, db, "write-once-post")
	t.Cleanup(func() { cleanPosts(t, db, "write-once-post") })

	created, err := posts.Create(context.Background(), &models.Post{
		Title: "Write Once", Slug: "write-once-post", Body: "b", AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	first := time.Now().Add(-time.Hour).UTC().Truncate(time.Microsecond)
	pub := *created
	pub.Status = models.PostStatusPublished
	pub.PublishedAt = &first
	if ok, err := posts.Transition(context.Background(), &pub, models.PostStatusDraft, nil); err != nil || !ok {
		t.Fatalf("publish transition: ok=%v err=%v", ok, err)
	}

	// Archive, then attempt to smuggle in a different published_at.
	second := time.Now().UTC()
	arch := pub
	arch.Status = models.PostStatusArchived
	arch.PublishedAt = &second
	if ok, err := posts.Transition(context.Background(), &arch, models.PostStatusPublished, nil); err != nil || !ok {
		t.Fatalf("archive transition: ok=%v err=%v", ok, err)
	}

	final, err := posts.Find(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if final.PublishedAt == nil || !final.PublishedAt.Equal(first) {
		t.Errorf("published_at = %v, want the original %v", final.PublishedAt, first)
	}
}

func TestPostListDueBoundary(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	author := testAuthor(t, db, "post-due-author")
	slugs := []string{"due-exact", "due-past", "due-future"}
	cleanPosts(t, db, slugs...)
	t.Cleanup(func() { cleanPosts(t, db, slugs...) })

	now := time.Now().UTC().Truncate(time.Microsecond)
	times := map[string]time.Time{
		"due-exact":  now,
		"due-past":   now.Add(-time.Hour),
		"due-future": now.Add(time.Hour),
	}
	for slug, at := range times {
		created, err := posts.Create(context.Background(), &models.Post{
			Title: slug, Slug: slug, Body: "b", AuthorID: author.ID,
		})
		if err != nil {
			t.Fatalf("Create %s: %v", slug, err)
		}
		at := at
		next := *created
		next.Status = models.PostStatusScheduled
		next.ScheduledPublishAt = &at
		if ok, err := posts.Transition(context.Background(), &next, models.PostStatusDraft, nil); err != nil || !ok {
			t.Fatalf("schedule %s: ok=%v err=%v", slug, ok, err)
		}
	}

	due, err := posts.ListDue(context.Background(), now)
	if err != nil {
		t.Fatalf("ListDue: %v", err)
	}

	got := map[string]bool{}
	for _, p := range due {
		got[p.Slug] = true
	}
	// A post scheduled for exactly now is due; the future one is not.
	if !got["due-exact"] || !got["due-past"] {
		t.Errorf("due set = %v, want due-exact and due-past", got)
	}
	if got["due-future"] {
		t.Error("due set includes a future post")
	}
}

func TestPostFindPublishedBySlug(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	author := testAuthor(t, db, "post-slug-author")
	cleanPosts(t, db, "visible-post", "hidden-draft")
	t.Cleanup(func() { cleanPosts(t, db, "visible-post", "hidden-draft") })

	draft, err := posts.Create(context.Background(), &models.Post{
		Title: "Hidden", Slug: "hidden-draft", Body: "b", AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	created, err := posts.Create(context.Background(), &models.Post{
		Title: "Visible", Slug: "visible-post", Body: "b", AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	now := time.Now().UTC()
	pub := *created
	pub.Status = models.PostStatusPublished
	pub.PublishedAt = &now
	if ok, err := posts.Transition(context.Background(), &pub, models.PostStatusDraft, nil); err != nil || !ok {
		t.Fatalf("publish transition: ok=%v err=%v", ok, err)
	}

	found, err := posts.FindPublishedBySlug(context.Background(), "visible-post")
	if err != nil {
		t.Fatalf("FindPublishedBySlug: %v", err)
	}
	if found == nil || found.ID != created.ID {
		t.Errorf("FindPublishedBySlug = %+v, want the published post", found)
	}

	hidden, err := posts.FindPublishedBySlug(context.Background(), draft.Slug)
	if err != nil {
		t.Fatalf("FindPublishedBySlug: %v", err)
	}
	if hidden != nil {
		t.Errorf("draft visible through FindPublishedBySlug: %+v", hidden)
	}
}

func TestPostListFilters(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	author := testAuthor(t, db, "post-filter-author")
	other := testAuthor(t, db, "post-filter-other")
	cleanPosts(t, db, "filter-a", "filter-b")
	t.Cleanup(func() { cleanPosts(t, db, "filter-a", "filter-b") })

	if _, err := posts.Create(context.Background(), &models.Post{
		Title: "A", Slug: "filter-a", Body: "b", AuthorID: author.ID,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := posts.Create(context.Background(), &models.Post{
		Title: "B", Slug: "filter-b", Body: "b", AuthorID: other.ID,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	byAuthor, err := posts.List(context.Background(), PostFilter{AuthorID: &author.ID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, p := range byAuthor {
		if p.AuthorID != author.ID {
			t.Errorf("author filter leaked post %s by %s", p.Slug, p.AuthorID)
		}
	}

	drafts, err := posts.List(context.Background(), PostFilter{Status: models.PostStatusDraft})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, p := range drafts {
		if p.Status != models.PostStatusDraft {
			t.Errorf("status filter leaked post %s with status %s", p.Slug, p.Status)
		}
	}
}

func TestPostScheduleConstraint(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	author := testAuthor(t, db, "post-check-author")
	cleanPosts(t, db, "check-post")
	t.Cleanup(func() { cleanPosts(t, db, "check-post") })

	created, err := posts.Create(context.Background(), &models.Post{
		Title: "Check", Slug: "check-post", Body: "b", AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The schema rejects a scheduled post without a scheduled time.
	bad := *created
	bad.Status = models.PostStatusScheduled
	bad.ScheduledPublishAt = nil
	if ok, err := posts.Transition(context.Background(), &bad, models.PostStatusDraft, nil); err == nil && ok {
		t.Error("schema accepted scheduled status without scheduled_publish_at")
	}
}
