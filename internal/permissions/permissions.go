// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package permissions decides what a role may do. The checks are pure
// functions over a static matrix: callers pass the authenticated user
// explicitly, and nothing here reads ambient state.
package permissions

import (
	"zonavortex/internal/models"
)

// Action is a named capability checked against the role matrix.
type Action string

const (
	ActionCreatePost       Action = "post.create"
	ActionEditAnyPost      Action = "post.edit_any"
	ActionPublishPost      Action = "post.publish"
	ActionDeletePost       Action = "post.delete"
	ActionProposeEdit      Action = "post.propose_edit"
	ActionReviewEdits      Action = "post.review_edits"
	ActionModerateComments Action = "comments.moderate"
	ActionManageTaxonomy   Action = "taxonomy.manage"
	ActionManageAds        Action = "ads.manage"
	ActionManageUsers      Action = "users.manage"
)

// matrix maps each role to its allowed actions. Admin additions beyond
// editor: publishing, deletion, edit review, taxonomy, ads, and users.
var matrix = map[models.Role]map[Action]bool{
	models.RoleAdmin: {
		ActionCreatePost:       true,
		ActionEditAnyPost:      true,
		ActionPublishPost:      true,
		ActionDeletePost:       true,
		ActionProposeEdit:      true,
		ActionReviewEdits:      true,
		ActionModerateComments: true,
		ActionManageTaxonomy:   true,
		ActionManageAds:        true,
		ActionManageUsers:      true,
	},
	models.RoleEditor: {
		ActionCreatePost:       true,
		ActionEditAnyPost:      true,
		ActionProposeEdit:      true,
		ActionModerateComments: true,
	},
	models.RoleAuthor: {
		ActionCreatePost:  true,
		ActionProposeEdit: true,
	},
}

// Allowed reports whether the role may perform the action. Unknown
// roles and unknown actions are always denied.
func Allowed(role models.Role, action Action) bool {
	return matrix[role][action]
}

// CanModifyPost reports whether the user may edit the post directly.
// Admins and editors may touch any post; authors only their own, and
// only while it is not yet published. Published posts by others are
// changed through the proposal queue instead.
func CanModifyPost(user *models.User, post *models.Post) bool {
	if user == nil || post == nil {
		return false
	}
	if Allowed(user.Role, ActionEditAnyPost) {
		return true
	}
	return post.AuthorID == user.ID && post.Status != models.PostStatusPublished
}
