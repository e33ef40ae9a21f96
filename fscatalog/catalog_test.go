package fscatalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSkill(t *testing.T, dir, name, frontmatter, body string) {
	t.Helper()
	root := filepath.Join(dir, name)
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	content := "---\n" + frontmatter + "---\n" + body
	if err := os.WriteFile(filepath.Join(root, "SKILL.md"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestListSkills_ParsesDescriptor(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "web-research",
		"name: web-research\ndescription: Structured web research.\ntools:\n  - web.research\n",
		"# Web Research Skill\n\nUse this skill for research requests.\n")

	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	skills, err := c.ListSkills(t.Context())
	if err != nil {
		t.Fatalf("ListSkills: %v", err)
	}
	if len(skills) != 1 {
		t.Fatalf("got %d skills, want 1", len(skills))
	}

	sk := skills[0]
	if sk.Name != "web-research" {
		t.Errorf("Name = %q", sk.Name)
	}
	if sk.Description != "Structured web research." {
		t.Errorf("Description = %q", sk.Description)
	}
	if len(sk.Tools) != 1 || sk.Tools[0] != "web.research" {
		t.Errorf("Tools = %v", sk.Tools)
	}
	if !strings.HasPrefix(sk.Content, "# Web Research Skill") {
		t.Errorf("Content = %q", sk.Content)
	}
	if !strings.HasPrefix(sk.Digest, "sha256:") {
		t.Errorf("Digest = %q", sk.Digest)
	}
}

func TestListSkills_SkipsMalformedEntries(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "good", "name: good\ndescription: ok\n", "body\n")

	// Missing frontmatter entirely.
	bad := filepath.Join(dir, "bad")
	if err := os.MkdirAll(bad, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(bad, "SKILL.md"), []byte("no frontmatter"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	// Name not matching directory.
	writeSkill(t, dir, "mismatch", "name: other\ndescription: ok\n", "body\n")

	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	skills, err := c.ListSkills(t.Context())
	if err != nil {
		t.Fatalf("ListSkills: %v", err)
	}
	if len(skills) != 1 || skills[0].Name != "good" {
		t.Fatalf("skills = %+v, want only 'good'", skills)
	}
}

func TestListSkills_RescanPicksUpEdits(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	skills, err := c.ListSkills(t.Context())
	if err != nil {
		t.Fatalf("ListSkills: %v", err)
	}
	if len(skills) != 0 {
		t.Fatalf("got %d skills on empty dir", len(skills))
	}

	writeSkill(t, dir, "late", "name: late\ndescription: added after first scan\n", "body\n")

	skills, err = c.ListSkills(t.Context())
	if err != nil {
		t.Fatalf("ListSkills: %v", err)
	}
	if len(skills) != 1 || skills[0].Name != "late" {
		t.Fatalf("skills = %+v, want 'late' after rescan", skills)
	}
}

func TestAvailableSkillsPrompt(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "web-research", "name: web-research\ndescription: Web research.\n", "body\n")

	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	skills, err := c.ListSkills(t.Context())
	if err != nil {
		t.Fatalf("ListSkills: %v", err)
	}

	p := AvailableSkillsPrompt(skills)
	if !strings.Contains(p, "**web-research**: Web research.") {
		t.Errorf("prompt missing skill line:\n%s", p)
	}
	if !strings.Contains(p, "skills.load") {
		t.Errorf("prompt missing loader tool mention:\n%s", p)
	}
	if AvailableSkillsPrompt(nil) != "" {
		t.Error("empty catalog should yield empty prompt")
	}
}
