package service

import (
	"context"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/util"
	"errors"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func TestAdminService_ApproveAndRevoke(t *testing.T) {
	users := newMockUserRepo(newTeacher("t1", false), newTeacher("t2", true), newStudent("s1"))
	notes := newMockNotificationRepo()
	svc := NewAdminService(users, NewNotificationService(notes))
	ctx := context.Background()
	admin := newAdmin("a1")

	pending, err := svc.PendingTeachers(ctx, admin)
	if err != nil || len(pending) != 1 || pending[0].ID != "t1" {
		t.Fatalf("PendingTeachers = %v, %v", pending, err)
	}

	u, err := svc.SetTeacherApproval(ctx, admin, &ApproveTeacherRequest{UserID: "t1", Approve: boolPtr(true)})
	if err != nil || !u.IsApproved {
		t.Fatalf("approve = %v, %v", u, err)
	}
	u, err = svc.SetTeacherApproval(ctx, admin, &ApproveTeacherRequest{UserID: "t2", Approve: boolPtr(false)})
	if err != nil || u.IsApproved {
		t.Fatalf("revoke = %v, %v", u, err)
	}

	if len(notes.items) != 2 ||
		notes.items[0].Type != model.NotificationTeacherApproved ||
		notes.items[1].Type != model.NotificationTeacherRevoked {
		t.Fatalf("unexpected notifications %+v", notes.items)
	}
}

func TestAdminService_Errors(t *testing.T) {
	users := newMockUserRepo(newStudent("s1"))
	svc := NewAdminService(users, NewNotificationService(newMockNotificationRepo()))
	ctx := context.Background()

	if _, err := svc.PendingTeachers(ctx, newTeacher("t1", true)); !errors.Is(err, util.ErrForbidden) {
		t.Fatalf("non-admin: err = %v", err)
	}
	if _, err := svc.SetTeacherApproval(ctx, newAdmin("a"), &ApproveTeacherRequest{UserID: "s1", Approve: boolPtr(true)}); !errors.Is(err, util.ErrUserNotFound) {
		t.Fatalf("student target: err = %v", err)
	}
	var verr *util.ValidationError
	if _, err := svc.SetTeacherApproval(ctx, newAdmin("a"), &ApproveTeacherRequest{UserID: "s1"}); !errors.As(err, &verr) || verr.Field != "approve" {
		t.Fatalf("missing approve: err = %v", err)
	}
}

func TestNotificationService_MarkReadOwnOnly(t *testing.T) {
	notes := newMockNotificationRepo()
	svc := NewNotificationService(notes)
	ctx := context.Background()
	svc.Notify(ctx, "s1", model.NotificationDoubtAnswered, "hi", nil)
	id := notes.items[0].ID

	if err := svc.MarkRead(ctx, newStudent("s2"), id); !errors.Is(err, util.ErrNotificationNotFound) {
		t.Fatalf("other user: err = %v", err)
	}
	if err := svc.MarkRead(ctx, newStudent("s1"), id); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	list, _ := svc.List(ctx, newStudent("s1"))
	if len(list) != 1 || !list[0].IsRead {
		t.Fatalf("List = %+v", list)
	}
}
