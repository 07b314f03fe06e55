// Package view renders stored files and upload tasks for the terminal and
// carries out the per-file actions.
package view

import (
	"fmt"
	"strings"

	"github.com/docker/go-units"
)

var sizeUnits = []string{"B", "KB", "MB"}

// DisplayName is the final path segment of an object key.
func DisplayName(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 && i < len(key)-1 {
		return key[i+1:]
	}
	return key
}

// Extension returns the lowercased text after the last dot, or "" without one.
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// Tag names a type color.
type Tag string

const (
	TagRed    Tag = "red"
	TagBlue   Tag = "blue"
	TagGreen  Tag = "green"
	TagOrange Tag = "orange"
	TagPurple Tag = "purple"
	TagYellow Tag = "yellow"
	TagGray   Tag = "gray"
)

var extensionTags = map[string]Tag{
	"pdf":  TagRed,
	"doc":  TagBlue,
	"docx": TagBlue,
	"xls":  TagGreen,
	"xlsx": TagGreen,
	"ppt":  TagOrange,
	"pptx": TagOrange,
	"jpg":  TagPurple,
	"jpeg": TagPurple,
	"png":  TagPurple,
	"gif":  TagPurple,
	"zip":  TagYellow,
	"rar":  TagYellow,
	"txt":  TagGray,
}

// ColorTag maps an extension to its icon color. Unknown extensions are blue.
func ColorTag(ext string) Tag {
	if tag, ok := extensionTags[ext]; ok {
		return tag
	}
	return TagBlue
}

// FormatSize renders a byte count in 1024 steps up to MB.
func FormatSize(size int64) string {
	if size < 1024 {
		return fmt.Sprintf("%d B", size)
	}
	return units.CustomSize("%.1f %s", float64(size), 1024, sizeUnits)
}

// FormatSpeed renders a transfer rate in 1024 steps up to MB/s.
func FormatSpeed(bytesPerSecond float64) string {
	return units.CustomSize("%.1f %s/s", bytesPerSecond, 1024, sizeUnits)
}
