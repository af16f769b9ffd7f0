// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package permissions

import (
	"testing"

	"github.com/google/uuid"

	"zonavortex/internal/models"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name   string
		role   models.Role
		action Action
		want   bool
	}{
		{name: "admin manages users", role: models.RoleAdmin, action: ActionManageUsers, want: true},
		{name: "admin reviews edits", role: models.RoleAdmin, action: ActionReviewEdits, want: true},
		{name: "editor moderates comments", role: models.RoleEditor, action: ActionModerateComments, want: true},
		{name: "editor cannot publish", role: models.RoleEditor, action: ActionPublishPost, want: false},
		{name: "editor cannot manage taxonomy", role: models.RoleEditor, action: ActionManageTaxonomy, want: false},
		{name: "author creates posts", role: models.RoleAuthor, action: ActionCreatePost, want: true},
		{name: "author proposes edits", role: models.RoleAuthor, action: ActionProposeEdit, want: true},
		{name: "author cannot delete", role: models.RoleAuthor, action: ActionDeletePost, want: false},
		{name: "unknown role denied", role: models.Role("ghost"), action: ActionCreatePost, want: false},
		{name: "unknown action denied", role: models.RoleAdmin, action: Action("nope"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allowed(tt.role, tt.action); got != tt.want {
				t.Errorf("Allowed(%s, %s) = %v, want %v", tt.role, tt.action, got, tt.want)
			}
		})
	}
}

func TestCanModifyPost(t *testing.T) {
	authorID := uuid.New()
	author := &models.User{ID: authorID, Role: models.RoleAuthor}
	otherAuthor := &models.User{ID: uuid.New(), Role: models.RoleAuthor}
	editor := &models.User{ID: uuid.New(), Role: models.RoleEditor}

	draft := &models.Post{AuthorID: authorID, Status: models.PostStatusDraft}
	published := &models.Post{AuthorID: authorID, Status: models.PostStatusPublished}

	tests := []struct {
		name string
		user *models.User
		post *models.Post
		want bool
	}{
		{name: "author edits own draft", user: author, post: draft, want: true},
		{name: "author blocked on own published post", user: author, post: published, want: false},
		{name: "author blocked on someone else's draft", user: otherAuthor, post: draft, want: false},
		{name: "editor edits anything", user: editor, post: published, want: true},
		{name: "nil user denied", user: nil, post: draft, want: false},
		{name: "nil post denied", user: author, post: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanModifyPost(tt.user, tt.post); got != tt.want {
				t.Errorf("CanModifyPost = %v, want %v", got, tt.want)
			}
		})
	}
}
