package domain

import "testing"

func TestPostStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to PostStatus
		want     bool
	}{
		{StatusDraft, StatusPublished, true},
		{StatusDraft, StatusDraft, false},
		{StatusPublished, StatusDraft, false},
		{StatusPublished, StatusPublished, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestPost_Visibility(t *testing.T) {
	draft := &Post{ID: "p1", AuthorID: "author-1", Status: StatusDraft}
	published := &Post{ID: "p2", AuthorID: "author-1", Status: StatusPublished}

	if !draft.VisibleTo("author-1") {
		t.Error("owner cannot see own draft")
	}
	if draft.VisibleTo("stranger") {
		t.Error("stranger can see a draft")
	}
	if !published.VisibleTo("stranger") {
		t.Error("stranger cannot see a published post")
	}
}

func TestPost_GrantsFileAccess(t *testing.T) {
	post := &Post{
		ID:       "p1",
		AuthorID: "author-1",
		Status:   StatusDraft,
		Images:   []Image{{ID: "img-1", PostID: "p1", FileName: "f.png"}},
	}

	if !post.GrantsFileAccess("author-1", "f.png") {
		t.Error("owner denied access to own draft image")
	}
	if post.GrantsFileAccess("stranger", "f.png") {
		t.Error("stranger granted access to a draft image")
	}
	if post.GrantsFileAccess("author-1", "other.png") {
		t.Error("access granted for a file the post does not carry")
	}

	post.Status = StatusPublished
	if !post.GrantsFileAccess("stranger", "f.png") {
		t.Error("stranger denied access to a published image")
	}
}

func TestPost_RemoveImage(t *testing.T) {
	post := &Post{Images: []Image{{ID: "a"}, {ID: "b"}, {ID: "c"}}}

	if !post.RemoveImage("b") {
		t.Fatal("expected removal")
	}
	if len(post.Images) != 2 || post.Images[0].ID != "a" || post.Images[1].ID != "c" {
		t.Errorf("unexpected images after removal: %+v", post.Images)
	}
	if post.RemoveImage("b") {
		t.Error("second removal should report false")
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@x.com", "first.last@sub.example.org"}
	invalid := []string{"", "plain", "a@b", "spaces in@x.com", "@x.com"}

	for _, s := range valid {
		if !ValidEmail(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range invalid {
		if ValidEmail(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}
