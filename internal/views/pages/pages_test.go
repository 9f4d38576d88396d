package pages

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"notekeeper/internal/i18n"
	"notekeeper/internal/store"
	"notekeeper/internal/views/theme"
	"notekeeper/models"
)

func intPtr(v int) *int { return &v }

func uintPtr(v uint) *uint { return &v }

func polishContext(t *testing.T) context.Context {
	t.Helper()
	tr, err := i18n.New("en")
	if err != nil {
		t.Fatalf("i18n.New error = %v", err)
	}
	return i18n.NewContext(context.Background(), tr.Localizer("pl"))
}

func TestNormalizeWorkspaceSection(t *testing.T) {
	if got := NormalizeWorkspaceSection("  SETTINGS "); got != SectionSettings {
		t.Fatalf("expected normalized section to be 'settings', got %s", got)
	}
	if got := NormalizeWorkspaceSection("formulas"); got != DefaultWorkspaceSection() {
		t.Fatalf("expected fallback to default section, got %s", got)
	}
	if ValidWorkspaceSection("invalid") {
		t.Fatal("expected invalid section to be rejected")
	}
}

func TestActiveContext(t *testing.T) {
	tests := []struct {
		folderID *int
		want     string
	}{
		{folderID: nil, want: "all"},
		{folderID: intPtr(models.FavoritesFolderID), want: "favorites"},
		{folderID: intPtr(3), want: "folder-3"},
	}
	for _, tc := range tests {
		snapshot := NewWorkspaceSnapshot("ala", "", nil, nil, tc.folderID)
		if got := snapshot.ActiveContext(); got != tc.want {
			t.Fatalf("ActiveContext = %q, want %q", got, tc.want)
		}
	}
}

func TestSnapshotFolderLookups(t *testing.T) {
	folders := []models.Folder{{ID: 1, Name: "Work", Color: models.FolderBlue}}
	snapshot := NewWorkspaceSnapshot("ala", "dark", folders, nil, nil)

	filed := models.Note{FolderID: uintPtr(1)}
	if snapshot.FolderLabel(filed) != "Work" || snapshot.FolderColor(filed) != models.FolderBlue {
		t.Fatalf("unexpected lookups for filed note")
	}
	loose := models.Note{}
	if snapshot.FolderLabel(loose) != models.DefaultFolderLabel || snapshot.FolderColor(loose) != models.DefaultFolderColor {
		t.Fatalf("unexpected lookups for unfiled note")
	}
	if snapshot.Theme != models.ThemeDark {
		t.Fatalf("expected theme to be kept, got %q", snapshot.Theme)
	}
}

func TestSeedUsesEmptyCollections(t *testing.T) {
	data, err := json.Marshal(EmptyWorkspaceSnapshot().Seed())
	if err != nil {
		t.Fatalf("marshal seed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("seed is not valid JSON: %v", err)
	}
	if notes, ok := decoded["notes"].([]any); !ok || len(notes) != 0 {
		t.Fatalf("expected empty notes array, got %#v", decoded["notes"])
	}
}

func TestNotePreview(t *testing.T) {
	short := "  hello  "
	if got := NotePreview(short); got != "hello" {
		t.Fatalf("expected trimmed preview, got %q", got)
	}
	long := strings.Repeat("ż", notePreviewRunes+10)
	got := NotePreview(long)
	if !strings.HasSuffix(got, "…") || len([]rune(got)) != notePreviewRunes+1 {
		t.Fatalf("unexpected preview length %d", len([]rune(got)))
	}
}

func TestWorkspaceRendersNotesInPolish(t *testing.T) {
	folders := []models.Folder{{ID: 2, Name: "Praca", Color: models.FolderBlack}}
	notes := []models.Note{
		{ID: 5, Title: "Lista", Content: "mleko", Favorite: true},
		{ID: 4, Title: "Plan", Content: "spotkanie", FolderID: uintPtr(2), Locked: true},
	}
	snapshot := NewWorkspaceSnapshot("ala", models.ThemeSystem, folders, notes, nil)

	var buf bytes.Buffer
	if err := Workspace(snapshot, theme.Styles(snapshot.Theme, false, nil)).Render(polishContext(t), &buf); err != nil {
		t.Fatalf("render workspace: %v", err)
	}
	out := buf.String()
	for _, token := range []string{"Wszystkie notatki", "Ulubione", "Ogólne", "Praca", "2 notatki", `data-locked="true"`, `id="workspace-seed"`, "mleko"} {
		if !strings.Contains(out, token) {
			t.Fatalf("expected output to contain %q", token)
		}
	}
	if strings.Contains(out, `<p class="whitespace-pre-line">spotkanie</p>`) {
		t.Fatalf("expected locked note body to be hidden from its card: %s", out)
	}
	if !strings.Contains(out, `<p class="note-locked workspace-muted">`) {
		t.Fatalf("expected locked placeholder on the card: %s", out)
	}
}

func TestWorkspaceSeedEscapesMarkup(t *testing.T) {
	notes := []models.Note{{ID: 1, Title: "x", Content: "</script><b>"}}
	snapshot := NewWorkspaceSnapshot("ala", "", nil, notes, nil)
	var buf bytes.Buffer
	if err := Workspace(snapshot, theme.Styles("", false, nil)).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render workspace: %v", err)
	}
	out := buf.String()
	if strings.Count(out, "</script>") != strings.Count(out, "<script") {
		t.Fatalf("expected seed content not to close its script element: %s", out)
	}
}

func TestWorkspaceHidesFavoritesWithoutAny(t *testing.T) {
	snapshot := NewWorkspaceSnapshot("ala", "", nil, []models.Note{{ID: 1, Title: "x"}}, nil)
	var buf bytes.Buffer
	if err := Workspace(snapshot, theme.Styles("", false, nil)).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render workspace: %v", err)
	}
	if strings.Contains(buf.String(), "folder=-1") {
		t.Fatal("expected favorites link to be hidden when no note is a favorite")
	}
}

func TestWorkspaceRendersSettings(t *testing.T) {
	snapshot := NewWorkspaceSnapshot("ala", models.ThemeSensor, nil, nil, nil)
	snapshot.Section = SectionSettings
	snapshot.Counts = store.NoteCounts{Total: 1}

	var buf bytes.Buffer
	if err := Workspace(snapshot, theme.Styles(snapshot.Theme, false, nil)).Render(polishContext(t), &buf); err != nil {
		t.Fatalf("render settings: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `value="sensor" checked`) {
		t.Fatalf("expected current theme to be checked: %s", out)
	}
	if !strings.Contains(out, "Czujnik światła") || !strings.Contains(out, "1 notatka") {
		t.Fatalf("expected localized settings: %s", out)
	}
}

func TestLoginAndSignupPages(t *testing.T) {
	var buf bytes.Buffer
	if err := Login(AuthPageData{Username: "ala", Message: "Błędny login lub hasło!", MessageKind: "error"}).Render(polishContext(t), &buf); err != nil {
		t.Fatalf("render login: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `action="/login"`) || !strings.Contains(out, `value="ala"`) || !strings.Contains(out, "flash-error") {
		t.Fatalf("unexpected login output: %s", out)
	}
	if strings.Contains(out, `name="confirm"`) {
		t.Fatal("login must not ask for confirmation")
	}

	buf.Reset()
	if err := Signup(AuthPageData{}).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render signup: %v", err)
	}
	if !strings.Contains(buf.String(), `name="confirm"`) {
		t.Fatalf("expected confirmation field on signup: %s", buf.String())
	}
}

func TestPreferenceStatus(t *testing.T) {
	var buf bytes.Buffer
	if err := PreferenceStatus("Saved").Render(context.Background(), &buf); err != nil {
		t.Fatalf("render status: %v", err)
	}
	if !strings.Contains(buf.String(), "Saved") {
		t.Fatalf("expected message in output: %s", buf.String())
	}
}
