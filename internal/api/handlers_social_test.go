// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

package api

import (
	"net/http"
	"testing"

	"github.com/thisbookapp/thisbook/internal/models"
)

func TestClubLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token, owner := env.signUp(t, "clubfounder")
	_, member := env.signUp(t, "clubjoiner")

	rec := env.do(t, http.MethodPost, "/club/", token, models.CreateClubRequest{
		Name:        "Night Readers",
		Description: "Meets after dark.",
		AdminID:     owner.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create club: status %d body %s", rec.Code, rec.Body.String())
	}
	var club models.Club
	decodeData(t, rec, &club)
	if club.AdminID != owner.ID {
		t.Fatalf("club admin = %s, want %s", club.AdminID, owner.ID)
	}

	rec = env.do(t, http.MethodPut, "/club/subscribe", token, models.SubscriptionRequest{
		TargetID: club.ID,
		UserID:   member.ID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("subscribe: status %d body %s", rec.Code, rec.Body.String())
	}
	decodeData(t, rec, &club)
	if !containsString(club.Members, member.ID) {
		t.Fatalf("members = %v, want %s", club.Members, member.ID)
	}

	// The membership is mirrored on the user document.
	rec = env.do(t, http.MethodGet, "/user/"+member.ID, token, nil)
	var joined models.User
	decodeData(t, rec, &joined)
	if !containsString(joined.Clubs, club.ID) {
		t.Fatalf("user clubs = %v, want %s", joined.Clubs, club.ID)
	}

	rec = env.do(t, http.MethodPut, "/club/unsubscribe", token, models.SubscriptionRequest{
		TargetID: club.ID,
		UserID:   member.ID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("unsubscribe: status %d", rec.Code)
	}
	decodeData(t, rec, &club)
	if containsString(club.Members, member.ID) {
		t.Fatalf("members after unsubscribe = %v", club.Members)
	}

	rec = env.do(t, http.MethodDelete, "/club/"+club.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete club: status %d", rec.Code)
	}
}

func TestClubDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	token, owner := env.signUp(t, "dupfounder")

	req := models.CreateClubRequest{Name: "Only One", AdminID: owner.ID}
	if rec := env.do(t, http.MethodPost, "/club/", token, req); rec.Code != http.StatusCreated {
		t.Fatalf("first create: status %d", rec.Code)
	}
	rec := env.do(t, http.MethodPost, "/club/", token, req)
	if rec.Code != http.StatusNotAcceptable {
		t.Fatalf("duplicate club name: status %d, want 406", rec.Code)
	}
}

func TestEventLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token, owner := env.signUp(t, "host")
	_, attendee := env.signUp(t, "attendee")

	rec := env.do(t, http.MethodPost, "/event/", token, models.CreateEventRequest{
		Name:     "Launch Reading",
		Location: "Town Library",
		Date:     "2026-10-01T19:00:00Z",
		AdminID:  owner.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create event: status %d body %s", rec.Code, rec.Body.String())
	}
	var event models.Event
	decodeData(t, rec, &event)

	rec = env.do(t, http.MethodPut, "/event/subscribe", token, models.SubscriptionRequest{
		TargetID: event.ID,
		UserID:   attendee.ID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("subscribe: status %d body %s", rec.Code, rec.Body.String())
	}
	decodeData(t, rec, &event)
	if !containsString(event.Members, attendee.ID) {
		t.Fatalf("members = %v", event.Members)
	}

	rec = env.do(t, http.MethodPut, "/event/unsubscribe", token, models.SubscriptionRequest{
		TargetID: event.ID,
		UserID:   attendee.ID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("unsubscribe: status %d", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/event/"+event.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete event: status %d", rec.Code)
	}
}

func TestEventRejectsBadDate(t *testing.T) {
	env := newTestEnv(t)
	token, owner := env.signUp(t, "sloppyhost")

	rec := env.do(t, http.MethodPost, "/event/", token, models.CreateEventRequest{
		Name:    "Sometime",
		Date:    "next tuesday",
		AdminID: owner.ID,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad date: status %d, want 400", rec.Code)
	}
}

func TestCommentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	writerToken, writer := env.signUp(t, "critic", models.RoleWriter)

	rec := env.do(t, http.MethodPost, "/book/", writerToken, models.CreateBookRequest{
		Title:       "Reviewed",
		ISBN:        "9780000000021",
		ReleaseDate: "2019-03-03",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create book: status %d body %s", rec.Code, rec.Body.String())
	}
	var book models.Book
	decodeData(t, rec, &book)

	rec = env.do(t, http.MethodPost, "/comment/", writerToken, models.CreateCommentRequest{
		Type:     models.CommentTypeBook,
		TargetID: book.ID,
		UserID:   writer.ID,
		Title:    "A fine read",
		Content:  "Kept me up all night.",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create comment: status %d body %s", rec.Code, rec.Body.String())
	}
	var comment models.Comment
	decodeData(t, rec, &comment)

	rec = env.do(t, http.MethodGet, "/comment/type/book", writerToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list by type: status %d", rec.Code)
	}
	var comments []*models.Comment
	decodeData(t, rec, &comments)
	if len(comments) != 1 || comments[0].ID != comment.ID {
		t.Fatalf("comments by type: %+v", comments)
	}

	rec = env.do(t, http.MethodGet, "/comment/type/podcast", writerToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown type: status %d, want 400", rec.Code)
	}

	rec = env.do(t, http.MethodPut, "/comment/"+comment.ID, writerToken, models.UpdateCommentRequest{
		Content: "On reflection, a masterpiece.",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update comment: status %d", rec.Code)
	}
	var updated models.Comment
	decodeData(t, rec, &updated)
	if updated.Content != "On reflection, a masterpiece." || updated.TargetID != book.ID {
		t.Errorf("updated comment %+v", updated)
	}

	rec = env.do(t, http.MethodDelete, "/comment/"+comment.ID, writerToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete comment: status %d", rec.Code)
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
