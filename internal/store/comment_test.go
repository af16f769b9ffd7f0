// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"
	"time"

	"zonavortex/internal/models"
)

func TestCommentModerationFlow(t *testing.T) {
	db := testDB(t)
	fx := newPostFixture(t, db, "cmttest")

	post := fx.insertPost(t, db, &models.Post{
		Slug: "cmttest-post", Title: "Comentado", Content: "x",
	}, time.Now().Add(-time.Hour))

	comments := NewCommentStore(db)
	email := "lectora@test.local"
	c, err := comments.Create(&models.Comment{
		PostID:      post.ID,
		AuthorName:  "Lectora",
		AuthorEmail: &email,
		Body:        "Muy útil, gracias.",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// New comments are held for moderation.
	approved, err := comments.ListApproved(post.ID)
	if err != nil {
		t.Fatalf("ListApproved failed: %v", err)
	}
	if len(approved) != 0 {
		t.Errorf("unmoderated comment visible: %v", approved)
	}

	if err := comments.Approve(c.ID); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	approved, err = comments.ListApproved(post.ID)
	if err != nil {
		t.Fatalf("ListApproved after approve failed: %v", err)
	}
	if len(approved) != 1 || approved[0].ID != c.ID {
		t.Fatalf("approved comments = %v, want the created one", approved)
	}

	if err := comments.Delete(c.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	approved, _ = comments.ListApproved(post.ID)
	if len(approved) != 0 {
		t.Errorf("deleted comment still listed: %v", approved)
	}
}
