package followup

import (
	"context"
	"testing"

	"github.com/abhisek/memora/internal/catalog"
	"github.com/abhisek/memora/internal/store"
)

func testSelector(t *testing.T) *Selector {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSelector(db)
}

func TestMaybeFollowupOncePerMemory(t *testing.T) {
	s := testSelector(t)
	ctx := context.Background()
	q := catalog.Question{
		ID:        "c_001",
		Pack:      catalog.PackChildhood,
		Followups: []string{"А какая комната была любимой?", "Какие запахи вы помните?"},
	}

	prompt, offered, err := s.MaybeFollowup(ctx, q, 1, "mem-1")
	if err != nil {
		t.Fatalf("MaybeFollowup error: %v", err)
	}
	if !offered {
		t.Fatal("first call did not offer a follow-up")
	}
	if prompt != q.Followups[0] {
		t.Errorf("prompt = %q, want first template %q", prompt, q.Followups[0])
	}

	_, offered, err = s.MaybeFollowup(ctx, q, 1, "mem-1")
	if err != nil {
		t.Fatalf("repeat MaybeFollowup error: %v", err)
	}
	if offered {
		t.Error("second call offered another follow-up for the same memory")
	}

	_, offered, err = s.MaybeFollowup(ctx, q, 1, "mem-2")
	if err != nil {
		t.Fatal(err)
	}
	if !offered {
		t.Error("different memory was denied a follow-up")
	}
}

func TestMaybeFollowupNoTemplates(t *testing.T) {
	s := testSelector(t)
	q := catalog.Question{ID: "c_002", Pack: catalog.PackChildhood}

	prompt, offered, err := s.MaybeFollowup(context.Background(), q, 1, "mem-1")
	if err != nil {
		t.Fatalf("MaybeFollowup error: %v", err)
	}
	if offered || prompt != "" {
		t.Errorf("question without templates offered %q", prompt)
	}
}
