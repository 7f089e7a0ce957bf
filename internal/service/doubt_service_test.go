package service

import (
	"context"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/util"
	"errors"
	"testing"
)

func TestDoubtService_AskAndAnswer(t *testing.T) {
	notes := newMockNotificationRepo()
	svc := NewDoubtService(newMockDoubtRepo(), NewNotificationService(notes))
	svc.Now = fixedClock(baseTime)
	ctx := context.Background()
	student := newStudent("s1")

	d, err := svc.Create(ctx, student, &DoubtCreateRequest{Subject: "Physics", QuestionText: "Why is the sky blue?"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.Status != model.DoubtPending || d.StudentName != student.Name {
		t.Fatalf("unexpected doubt %+v", d)
	}

	if _, err := svc.Answer(ctx, newTeacher("t1", false), d.ID, &DoubtAnswerRequest{AnswerText: "Rayleigh"}); !errors.Is(err, util.ErrPendingApproval) {
		t.Fatalf("unapproved teacher: err = %v", err)
	}

	answered, err := svc.Answer(ctx, newTeacher("t1", true), d.ID, &DoubtAnswerRequest{AnswerText: "Rayleigh scattering"})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answered.Status != model.DoubtAnswered || *answered.AnsweredBy != "t1" || answered.AnsweredAt == nil {
		t.Fatalf("doubt not answered: %+v", answered)
	}

	if len(notes.items) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notes.items))
	}
	n := notes.items[0]
	if n.UserID != "s1" || n.Type != model.NotificationDoubtAnswered || n.RelatedID == nil || *n.RelatedID != d.ID {
		t.Fatalf("unexpected notification %+v", n)
	}
}

func TestDoubtService_AnswerMissing(t *testing.T) {
	svc := NewDoubtService(newMockDoubtRepo(), NewNotificationService(newMockNotificationRepo()))
	_, err := svc.Answer(context.Background(), newTeacher("t1", true), "doubt_x", &DoubtAnswerRequest{AnswerText: "a"})
	if !errors.Is(err, util.ErrDoubtNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestDoubtService_ListVisibility(t *testing.T) {
	svc := NewDoubtService(newMockDoubtRepo(), NewNotificationService(newMockNotificationRepo()))
	ctx := context.Background()
	for _, id := range []string{"s1", "s1", "s2"} {
		if _, err := svc.Create(ctx, newStudent(id), &DoubtCreateRequest{Subject: "Maths", QuestionText: "?"}); err != nil {
			t.Fatal(err)
		}
	}

	own, _ := svc.List(ctx, newStudent("s1"), "")
	if len(own) != 2 {
		t.Fatalf("student sees %d doubts, want 2", len(own))
	}
	all, _ := svc.List(ctx, newTeacher("t1", true), model.DoubtPending)
	if len(all) != 3 {
		t.Fatalf("teacher sees %d doubts, want 3", len(all))
	}
	var verr *util.ValidationError
	if _, err := svc.List(ctx, newStudent("s1"), "closed"); !errors.As(err, &verr) {
		t.Fatalf("bad status: err = %v", err)
	}
}
