// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package capdir names capture files and lists the capture directory.
package capdir

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DirName is the capture directory created beside the project root.
const DirName = "SceneCapture"

// TimestampLayout has one-second resolution; captures in the same second
// with the same prefix overwrite each other.
const TimestampLayout = "20060102_150405"

// Dir returns the capture directory for a project root.
func Dir(projectRoot string) string {
	return filepath.Join(projectRoot, DirName)
}

// SceneFile returns capture_<ts>.png.
func SceneFile(t time.Time) string {
	return "capture_" + t.Format(TimestampLayout) + ".png"
}

// GameViewFile returns gameview_<ts>.png.
func GameViewFile(t time.Time) string {
	return "gameview_" + t.Format(TimestampLayout) + ".png"
}

// TemplateFile returns prefab_<name>_<ts>.png, where name is the asset's
// base name without extension, sanitized for file systems.
func TemplateFile(assetPath string, t time.Time) string {
	return "prefab_" + TemplateName(assetPath) + "_" + t.Format(TimestampLayout) + ".png"
}

// TemplateName strips directory and extension from an asset path and folds
// the rest to [A-Za-z0-9_-]. Accented letters lose their marks; anything
// else becomes '_'.
func TemplateName(assetPath string) string {
	base := path.Base(strings.ReplaceAll(assetPath, `\`, "/"))
	base = strings.TrimSuffix(base, path.Ext(base))

	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), base)
	if err != nil {
		folded = base
	}

	var b strings.Builder
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "template"
	}
	return b.String()
}

// Entry is one listed capture.
type Entry struct {
	Name     string
	Size     int64
	Modified time.Time
}

// SizeKB returns the size in kilobytes.
func (e Entry) SizeKB() float64 {
	return float64(e.Size) / 1024
}

// List returns the *.png files in dir, newest first. A missing directory is
// an empty list, not an error. List never creates anything.
func List(dir string) ([]Entry, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var out []Entry
	for _, de := range ents {
		if de.IsDir() || !strings.EqualFold(filepath.Ext(de.Name()), ".png") {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue // removed between ReadDir and Info
		}
		out = append(out, Entry{Name: de.Name(), Size: info.Size(), Modified: info.ModTime()})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Modified.Equal(out[j].Modified) {
			return out[i].Modified.After(out[j].Modified)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Format renders a listing as text.
func Format(dir string, entries []Entry) string {
	if len(entries) == 0 {
		return "No captures found in " + dir
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d capture(s) in %s:", len(entries), dir)
	for _, e := range entries {
		fmt.Fprintf(&b, "\n- %s (%.1f KB, %s)", e.Name, e.SizeKB(), e.Modified.Format("2006-01-02 15:04:05"))
	}
	return b.String()
}
