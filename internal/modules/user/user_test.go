package user

import (
	"context"
	"errors"
	"testing"

	"github.com/georgemunganga/shopswift/internal/storage"
)

func TestNameFromEmail(t *testing.T) {
	cases := map[string]string{
		"jane.doe@example.com": "jane.doe",
		"seller@shop":          "seller",
		"no-at-sign":           "no-at-sign",
		"":                     "",
	}
	for in, want := range cases {
		if got := NameFromEmail(in); got != want {
			t.Errorf("NameFromEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleBuyer.Valid() || !RoleSeller.Valid() {
		t.Fatalf("buyer and seller must be valid")
	}
	if Role("admin").Valid() || Role("").Valid() {
		t.Fatalf("unknown roles must be invalid")
	}
}

func TestStorageRepository(t *testing.T) {
	store := storage.NewMemoryStore()
	repo := NewStorageRepository(store)
	ctx := context.Background()

	if _, err := repo.Get(ctx, "s1"); !errors.Is(err, ErrNoUser) {
		t.Fatalf("expected ErrNoUser, got %v", err)
	}

	u := &User{ID: "u1", Email: "a@b.c", Role: RoleSeller, Name: "a"}
	if err := repo.Save(ctx, "s1", u); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	raw, err := store.Get(ctx, KeyPrefix+"s1")
	if err != nil {
		t.Fatalf("record not written under prefixed key: %v", err)
	}
	if string(raw) != `{"id":"u1","email":"a@b.c","role":"seller","name":"a"}` {
		t.Fatalf("unexpected record %s", raw)
	}

	got, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if *got != *u {
		t.Fatalf("got %+v, want %+v", got, u)
	}

	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.Get(ctx, "s1"); !errors.Is(err, ErrNoUser) {
		t.Fatalf("expected ErrNoUser after delete, got %v", err)
	}
}

func TestStorageRepositoryCorruptRecord(t *testing.T) {
	store := storage.NewMemoryStore()
	_ = store.Set(context.Background(), KeyPrefix+"s1", []byte("{not json"))
	if _, err := NewStorageRepository(store).Get(context.Background(), "s1"); err == nil || errors.Is(err, ErrNoUser) {
		t.Fatalf("expected decode error, got %v", err)
	}
}
