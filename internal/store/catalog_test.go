// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thisbookapp/thisbook/internal/models"
)

func createTestAuthor(t *testing.T, s *Store, name string) *models.Author {
	t.Helper()
	a := &models.Author{Name: name}
	if err := s.CreateAuthor(context.Background(), a); err != nil {
		t.Fatalf("create author %s: %v", name, err)
	}
	return a
}

func createTestBook(t *testing.T, s *Store, title, isbn, authorID string) *models.Book {
	t.Helper()
	b := &models.Book{
		Title:       title,
		ISBN:        isbn,
		ReleaseDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		AuthorID:    authorID,
	}
	if err := s.CreateBook(context.Background(), b); err != nil {
		t.Fatalf("create book %s: %v", title, err)
	}
	return b
}

func TestCreateBookISBNConflict(t *testing.T) {
	s := newTestStore(t)
	createTestBook(t, s, "First", "9780000000001", "")

	dup := &models.Book{Title: "Second", ISBN: "9780000000001", ReleaseDate: time.Now()}
	if err := s.CreateBook(context.Background(), dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestCreateBookLinksAuthor(t *testing.T) {
	s := newTestStore(t)
	a := createTestAuthor(t, s, "Ursula")
	b := createTestBook(t, s, "Dispossessed", "9780000000002", a.ID)

	got, err := s.GetAuthor(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("get author: %v", err)
	}
	if !containsString(got.Books, b.ID) {
		t.Errorf("author books = %v, missing %s", got.Books, b.ID)
	}
}

func TestListBooksByCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cat := &models.Category{Name: "SciFi"}
	if err := s.CreateCategory(ctx, cat); err != nil {
		t.Fatalf("create category: %v", err)
	}

	tagged := &models.Book{
		Title: "Tagged", ISBN: "9780000000003",
		ReleaseDate: time.Now(), Categories: []string{cat.ID},
	}
	if err := s.CreateBook(ctx, tagged); err != nil {
		t.Fatalf("create book: %v", err)
	}
	createTestBook(t, s, "Untagged", "9780000000004", "")

	books, err := s.ListBooksByCategory(ctx, cat.ID)
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(books) != 1 || books[0].ID != tagged.ID {
		t.Errorf("books = %v", books)
	}
}

func TestListBooksByReleaseDate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	b := createTestBook(t, s, "March Book", "9780000000005", "")

	books, err := s.ListBooksByReleaseDate(ctx, time.Date(2024, 3, 15, 23, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("list by date: %v", err)
	}
	if len(books) != 1 || books[0].ID != b.ID {
		t.Fatalf("books = %v", books)
	}

	books, err = s.ListBooksByReleaseDate(ctx, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("list by other date: %v", err)
	}
	if len(books) != 0 {
		t.Errorf("expected no books, got %d", len(books))
	}
}

func TestDeleteBookDetachesAuthor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := createTestAuthor(t, s, "Ursula")
	b := createTestBook(t, s, "Dispossessed", "9780000000006", a.ID)

	if err := s.DeleteBook(ctx, b.ID); err != nil {
		t.Fatalf("delete book: %v", err)
	}

	got, err := s.GetAuthor(ctx, a.ID)
	if err != nil {
		t.Fatalf("get author: %v", err)
	}
	if containsString(got.Books, b.ID) {
		t.Error("book still referenced by author")
	}

	// ISBN is free again.
	if err := s.CreateBook(ctx, &models.Book{Title: "New", ISBN: "9780000000006", ReleaseDate: time.Now()}); err != nil {
		t.Errorf("recreate with same ISBN: %v", err)
	}
}

func TestAuthorUserLink(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "ursula")

	a := &models.Author{Name: "Ursula", UserID: u.ID}
	if err := s.CreateAuthor(ctx, a); err != nil {
		t.Fatalf("create author: %v", err)
	}

	got, err := s.GetAuthorByUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("get by user: %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("got %s, want %s", got.ID, a.ID)
	}

	// One profile per account.
	second := &models.Author{Name: "Pen Name", UserID: u.ID}
	if err := s.CreateAuthor(ctx, second); !errors.Is(err, ErrConflict) {
		t.Errorf("second link: err = %v, want ErrConflict", err)
	}
}

func TestDeleteAuthorDetachesBooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := createTestAuthor(t, s, "Ursula")
	b := createTestBook(t, s, "Dispossessed", "9780000000007", a.ID)

	if err := s.DeleteAuthor(ctx, a.ID); err != nil {
		t.Fatalf("delete author: %v", err)
	}

	got, err := s.GetBook(ctx, b.ID)
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	if got.AuthorID != "" {
		t.Errorf("book still linked to %s", got.AuthorID)
	}
}

func TestClubLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	admin := createTestUser(t, s, "admin")
	member := createTestUser(t, s, "member")

	club := &models.Club{Name: "Night Readers", AdminID: admin.ID}
	if err := s.CreateClub(ctx, club); err != nil {
		t.Fatalf("create club: %v", err)
	}
	if !containsString(club.Members, admin.ID) {
		t.Error("admin not a member")
	}
	adminDoc, _ := s.GetUser(ctx, admin.ID)
	if !containsString(adminDoc.Clubs, club.ID) {
		t.Error("club not mirrored on admin")
	}

	if err := s.CreateClub(ctx, &models.Club{Name: "night readers", AdminID: admin.ID}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate name: err = %v", err)
	}

	got, err := s.SubscribeClub(ctx, club.ID, member.ID)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if len(got.Members) != 2 {
		t.Errorf("members = %v", got.Members)
	}

	// Idempotent.
	got, err = s.SubscribeClub(ctx, club.ID, member.ID)
	if err != nil {
		t.Fatalf("re-subscribe: %v", err)
	}
	if len(got.Members) != 2 {
		t.Errorf("members after re-subscribe = %v", got.Members)
	}

	got, err = s.UnsubscribeClub(ctx, club.ID, member.ID)
	if err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if containsString(got.Members, member.ID) {
		t.Error("member still present")
	}
	memberDoc, _ := s.GetUser(ctx, member.ID)
	if containsString(memberDoc.Clubs, club.ID) {
		t.Error("club still mirrored on member")
	}

	if err := s.DeleteClub(ctx, club.ID); err != nil {
		t.Fatalf("delete club: %v", err)
	}
	adminDoc, _ = s.GetUser(ctx, admin.ID)
	if containsString(adminDoc.Clubs, club.ID) {
		t.Error("club still mirrored on admin after delete")
	}
}

func TestEventLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	admin := createTestUser(t, s, "admin")
	member := createTestUser(t, s, "member")

	early := &models.Event{Name: "Early", AdminID: admin.ID, Date: time.Now().Add(time.Hour)}
	late := &models.Event{Name: "Late", AdminID: admin.ID, Date: time.Now().Add(48 * time.Hour)}
	for _, e := range []*models.Event{early, late} {
		if err := s.CreateEvent(ctx, e); err != nil {
			t.Fatalf("create event: %v", err)
		}
	}

	events, err := s.ListEvents(ctx)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 || events[0].ID != late.ID {
		t.Errorf("expected newest first, got %v", events)
	}

	if _, err := s.SubscribeEvent(ctx, early.ID, member.ID); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	memberDoc, _ := s.GetUser(ctx, member.ID)
	if !containsString(memberDoc.Events, early.ID) {
		t.Error("event not mirrored on member")
	}

	if _, err := s.UnsubscribeEvent(ctx, early.ID, member.ID); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if err := s.DeleteEvent(ctx, early.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}
	adminDoc, _ := s.GetUser(ctx, admin.ID)
	if containsString(adminDoc.Events, early.ID) {
		t.Error("event still mirrored on admin after delete")
	}
}

func TestChatLifecycleAndHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")

	chat := &models.Chat{Name: "general", Members: []string{alice.ID}}
	if err := s.CreateChat(ctx, chat); err != nil {
		t.Fatalf("create chat: %v", err)
	}
	aliceDoc, _ := s.GetUser(ctx, alice.ID)
	if !containsString(aliceDoc.Chats, chat.ID) {
		t.Error("chat not mirrored on alice")
	}

	if _, err := s.JoinChat(ctx, chat.ID, bob.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	var msgIDs []string
	for _, text := range []string{"one", "two", "three", "four"} {
		msg := &models.ChatMessage{ChatID: chat.ID, UserID: alice.ID, Text: text}
		if err := s.AppendMessage(ctx, msg); err != nil {
			t.Fatalf("append %s: %v", text, err)
		}
		msgIDs = append(msgIDs, msg.ID)
	}

	// Latest window.
	msgs, err := s.ListMessages(ctx, chat.ID, "", 2)
	if err != nil {
		t.Fatalf("list latest: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Text != "three" || msgs[1].Text != "four" {
		t.Fatalf("latest window wrong: %+v", msgs)
	}

	// Page backwards from the third message.
	msgs, err = s.ListMessages(ctx, chat.ID, msgIDs[2], 10)
	if err != nil {
		t.Fatalf("list before: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Text != "one" || msgs[1].Text != "two" {
		t.Fatalf("before window wrong: %+v", msgs)
	}

	if _, err := s.LeaveChatByHandle(ctx, chat.ID, "bob"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	bobDoc, _ := s.GetUser(ctx, bob.ID)
	if containsString(bobDoc.Chats, chat.ID) {
		t.Error("chat still mirrored on bob")
	}

	if err := s.DeleteChat(ctx, chat.ID); err != nil {
		t.Fatalf("delete chat: %v", err)
	}
	if _, err := s.ListMessages(ctx, chat.ID, "", 10); !errors.Is(err, ErrNotFound) {
		t.Errorf("messages after delete: err = %v, want ErrNotFound", err)
	}
}

func TestCommentTypeFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "critic")

	for _, c := range []*models.Comment{
		{Type: models.CommentTypeBook, TargetID: "b1", UserID: u.ID, Content: "loved it"},
		{Type: models.CommentTypeClub, TargetID: "c1", UserID: u.ID, Content: "great club"},
	} {
		if err := s.CreateComment(ctx, c); err != nil {
			t.Fatalf("create comment: %v", err)
		}
	}

	comments, err := s.ListCommentsByType(ctx, models.CommentTypeBook)
	if err != nil {
		t.Fatalf("list by type: %v", err)
	}
	if len(comments) != 1 || comments[0].Content != "loved it" {
		t.Errorf("comments = %+v", comments)
	}

	all, err := s.ListComments(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("got %d comments", len(all))
	}
}
