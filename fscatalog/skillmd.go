package fscatalog

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/flexigpt/agentgate-go/spec"
)

const (
	skillFileName   = "SKILL.md"
	maxSkillMDBytes = 2 << 20 // 2 MiB
)

// parseSkillDir reads <root>/SKILL.md and returns a complete descriptor
// (frontmatter metadata plus body). Body and metadata are read together:
// the gate returns the full content on load, so there is no separate lazy
// body stage here.
func parseSkillDir(root string) (spec.SkillDescriptor, error) {
	skillMDPath := filepath.Join(root, skillFileName)

	if lst, lerr := os.Lstat(skillMDPath); lerr == nil {
		if lst.Mode()&os.ModeSymlink != 0 {
			return spec.SkillDescriptor{}, errors.New("SKILL.md must not be a symlink")
		}
		if !lst.Mode().IsRegular() {
			return spec.SkillDescriptor{}, errors.New("SKILL.md must be a regular file")
		}
	}

	b, sha, err := readAllLimitedAndDigest(skillMDPath)
	if err != nil {
		return spec.SkillDescriptor{}, err
	}

	fm, body, hasFM, err := splitFrontmatter(string(b))
	if err != nil {
		return spec.SkillDescriptor{}, err
	}
	if !hasFM {
		return spec.SkillDescriptor{}, errors.New("SKILL.md must contain YAML frontmatter")
	}

	props := map[string]any{}
	if err := yaml.Unmarshal([]byte(fm), &props); err != nil {
		return spec.SkillDescriptor{}, fmt.Errorf("invalid frontmatter YAML: %w", err)
	}

	name := strings.TrimSpace(asString(props["name"]))
	description := strings.TrimSpace(asString(props["description"]))

	if err := validateName(name); err != nil {
		return spec.SkillDescriptor{}, err
	}
	if err := validateDescription(description); err != nil {
		return spec.SkillDescriptor{}, err
	}
	if base := filepath.Base(root); base != "" && name != base {
		return spec.SkillDescriptor{}, fmt.Errorf("frontmatter.name %q must match directory name %q", name, base)
	}

	tools, err := asStringList(props["tools"])
	if err != nil {
		return spec.SkillDescriptor{}, fmt.Errorf("invalid frontmatter tools: %w", err)
	}

	return spec.SkillDescriptor{
		Name:        name,
		Description: description,
		Content:     strings.TrimLeft(body, "\r\n"),
		Tools:       tools,
		Location:    skillMDPath,
		Digest:      "sha256:" + sha,
	}, nil
}

func readAllLimitedAndDigest(path string) (data []byte, dataSHA string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	data, err = io.ReadAll(io.LimitReader(f, int64(maxSkillMDBytes)+1))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) > maxSkillMDBytes {
		return nil, "", fmt.Errorf("SKILL.md too large (max %d bytes)", maxSkillMDBytes)
	}

	sum := sha256.Sum256(data)
	return data, hex.EncodeToString(sum[:]), nil
}

func splitFrontmatter(s string) (frontmatter, body string, has bool, err error) {
	br := bufio.NewReader(strings.NewReader(s))

	first, ferr := br.ReadString('\n')
	if ferr != nil && !errors.Is(ferr, io.EOF) {
		return "", "", false, fmt.Errorf("read first line: %w", ferr)
	}
	first = strings.TrimRight(first, "\r\n")
	if strings.TrimSpace(first) != "---" {
		return "", s, false, nil
	}

	var fmLines []string
	foundEnd := false
	for {
		line, lerr := br.ReadString('\n')
		if lerr != nil && !errors.Is(lerr, io.EOF) {
			return "", "", false, fmt.Errorf("read frontmatter line: %w", lerr)
		}
		lineTrim := strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(lineTrim) == "---" {
			foundEnd = true
			break
		}
		fmLines = append(fmLines, lineTrim)
		if errors.Is(lerr, io.EOF) {
			break
		}
	}

	if !foundEnd {
		return "", "", false, errors.New("unterminated frontmatter (missing closing ---)")
	}

	rest, err := io.ReadAll(br)
	if err != nil {
		return "", "", false, fmt.Errorf("read body: %w", err)
	}

	return strings.Join(fmLines, "\n"), string(rest), true, nil
}

func validateName(name string) error {
	if name == "" {
		return errors.New("frontmatter.name is required")
	}
	if len(name) > 64 {
		return errors.New("frontmatter.name too long (max 64)")
	}
	if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") {
		return errors.New("frontmatter.name must not start or end with '-'")
	}
	if strings.Contains(name, "--") {
		return errors.New("frontmatter.name must not contain consecutive '--'")
	}
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			continue
		}
		return fmt.Errorf("frontmatter.name contains invalid character %q", string(r))
	}
	return nil
}

func validateDescription(desc string) error {
	if desc == "" {
		return errors.New("frontmatter.description is required")
	}
	if len(desc) > 1024 {
		return errors.New("frontmatter.description too long (max 1024)")
	}
	return nil
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asStringList(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list, got %T", v)
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string item, got %T", item)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}
