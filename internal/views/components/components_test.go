package components

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLinkState(t *testing.T) {
	if got := linkState("favorites", "favorites"); got != "active" {
		t.Fatalf("expected active state when sections match, got %q", got)
	}
	if got := linkState("folder-2", "all"); got != "inactive" {
		t.Fatalf("expected inactive state when sections differ, got %q", got)
	}
}

func TestSidebarRendersActiveSection(t *testing.T) {
	data := SidebarData{
		Title:  "notekeeper",
		Active: "favorites",
		Links: []SidebarLink{
			{Label: "All notes", Path: "/app", Section: "all"},
			{Label: "Favorites", Path: "/app?folder=-1", Section: "favorites"},
			{Label: "Work <3", Path: "/app?folder=2", Section: "folder-2", Color: "blue"},
		},
	}
	var buf bytes.Buffer
	if err := Sidebar(data).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render sidebar: %v", err)
	}
	out := buf.String()
	if strings.Count(out, `data-state="active"`) != 1 {
		t.Fatalf("expected exactly one active link in sidebar output: %s", out)
	}
	if !strings.Contains(out, "Work &lt;3") {
		t.Fatalf("expected folder name to be escaped: %s", out)
	}
	if !strings.Contains(out, "folder-blue") {
		t.Fatalf("expected folder colour dot: %s", out)
	}
}

func TestFolderBadgeUsesReadableText(t *testing.T) {
	var buf bytes.Buffer
	if err := FolderBadge("Work", "black").Render(context.Background(), &buf); err != nil {
		t.Fatalf("render badge: %v", err)
	}
	if !strings.Contains(buf.String(), "text-white") {
		t.Fatalf("expected white text on black folder: %s", buf.String())
	}

	buf.Reset()
	if err := FolderBadge("General", "mauve").Render(context.Background(), &buf); err != nil {
		t.Fatalf("render badge: %v", err)
	}
	if !strings.Contains(buf.String(), "folder-white text-black") {
		t.Fatalf("expected unknown colour to fall back to white: %s", buf.String())
	}
}

func TestNoteCardRendersFlags(t *testing.T) {
	var buf bytes.Buffer
	card := NoteCardData{ID: 42, Title: "Diary", Content: "dear <diary>", FolderLabel: "General", Favorite: true, LockedLabel: "Locked"}
	if err := NoteCard(card).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render note card: %v", err)
	}
	out := buf.String()
	for _, token := range []string{`data-note-id="42"`, `data-locked="false"`, `data-favorite="true"`, "dear &lt;diary&gt;", "General"} {
		if !strings.Contains(out, token) {
			t.Fatalf("expected output to contain %q: %s", token, out)
		}
	}
}

func TestNoteCardHidesLockedContent(t *testing.T) {
	var buf bytes.Buffer
	card := NoteCardData{ID: 7, Title: "PIN", Content: "1234 secret", FolderLabel: "General", Locked: true, LockedLabel: "Locked"}
	if err := NoteCard(card).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render note card: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "1234 secret") {
		t.Fatalf("locked card must not show its content: %s", out)
	}
	for _, token := range []string{`data-locked="true"`, "PIN", `<p class="note-locked workspace-muted">Locked</p>`} {
		if !strings.Contains(out, token) {
			t.Fatalf("expected output to contain %q: %s", token, out)
		}
	}
}

func TestFlashSkipsEmptyMessages(t *testing.T) {
	var buf bytes.Buffer
	if err := Flash("  ", "error").Render(context.Background(), &buf); err != nil {
		t.Fatalf("render flash: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %s", buf.String())
	}
	if err := Flash("Saved", "").Render(context.Background(), &buf); err != nil {
		t.Fatalf("render flash: %v", err)
	}
	if !strings.Contains(buf.String(), `class="flash flash-info"`) {
		t.Fatalf("expected default kind: %s", buf.String())
	}
}
