package utils

import (
	"regexp"
	"strings"
)

var nonSlug = regexp.MustCompile("[^a-z0-9]+")

// Slugify lowercases s and collapses every run of other characters into a
// single hyphen.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// AttachmentName builds a download file name from parts, e.g.
// AttachmentName("csv", "scholarships", "rejections", "17") is
// "scholarships-rejections-17.csv". Empty parts are skipped.
func AttachmentName(ext string, parts ...string) string {
	var slugs []string
	for _, p := range parts {
		if s := Slugify(p); s != "" {
			slugs = append(slugs, s)
		}
	}
	name := strings.Join(slugs, "-")
	if name == "" {
		name = "download"
	}
	return name + "." + strings.TrimPrefix(ext, ".")
}
