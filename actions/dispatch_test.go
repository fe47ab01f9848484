package actions

import (
	"context"
	"strings"
	"testing"
)

func TestDispatch_UnknownActionIsNotFound(t *testing.T) {
	svc := NewService(newMemStore(), nil, nil)
	_, err := svc.Dispatch(userCtx("user-1"), "dropDatabase", nil)
	expectCode(t, err, CodeNotFound)
}

func TestDispatch_MalformedBodyIsValidation(t *testing.T) {
	svc := NewService(newMemStore(), nil, nil)
	_, err := svc.Dispatch(userCtx("user-1"), ActionCreatePreset, []byte(`{"name": 42}`))
	expectCode(t, err, CodeValidation)
}

func TestDispatch_EmptyBodyDecodesAsZeroInput(t *testing.T) {
	svc := NewService(newMemStore(), nil, nil)

	data, err := svc.Dispatch(userCtx("user-1"), ActionCreateConversionJob, []byte("  "))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	res, ok := data.(*JobResult)
	if !ok || res.Job.Status != "queued" {
		t.Fatalf("unexpected payload: %#v", data)
	}
}

func TestDispatch_NullFieldIsOmission(t *testing.T) {
	svc := NewService(newMemStore(), nil, nil)

	data, err := svc.Dispatch(userCtx("user-1"), ActionCreateConversionJob, []byte(`{"errorMessage":"boom"}`))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	id := data.(*JobResult).Job.ID

	_, err = svc.Dispatch(userCtx("user-1"), ActionUpdateConversionJob, []byte(`{"id":"`+id+`","errorMessage":null}`))
	expectCode(t, err, CodeValidation)

	data, err = svc.Dispatch(userCtx("user-1"), ActionUpdateConversionJob, []byte(`{"id":"`+id+`","errorMessage":""}`))
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if msg := data.(*JobResult).Job.ErrorMessage; msg == nil || *msg != "" {
		t.Fatalf("expected empty string to overwrite, got %v", msg)
	}
}

func TestDispatch_ListWithoutUserIsUnauthorized(t *testing.T) {
	svc := NewService(newMemStore(), nil, nil)
	_, err := svc.Dispatch(context.Background(), ActionListPresets, nil)
	expectCode(t, err, CodeUnauthorized)
}

func TestNames_CoversAllActions(t *testing.T) {
	names := strings.Join(Names(), ",")
	for _, want := range []string{
		ActionCreateConversionJob, ActionUpdateConversionJob, ActionListConversionJobs, ActionGetConversionJob,
		ActionCreatePreset, ActionUpdatePreset, ActionDeletePreset, ActionListPresets, ActionGetPreset,
	} {
		if !strings.Contains(names, want) {
			t.Fatalf("missing action %s in %s", want, names)
		}
	}
}

func TestError_MessageListsFields(t *testing.T) {
	err := Validation("", map[string]string{"name": "is required", "id": "is required"})
	if err.Message != "id is required; name is required" {
		t.Fatalf("unexpected message %q", err.Message)
	}
	if AsError(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
	if AsError(context.Canceled).Code != CodeInternal {
		t.Fatal("expected unknown errors to be internal")
	}
}
