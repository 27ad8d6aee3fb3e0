// Package template renders the value argument of a set command before it is
// decoded, so values can carry generated identifiers, timestamps and
// variables passed with -var.
package template

import (
	"encoding/base64"
	"strconv"
	"strings"
	"text/template"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// FuncMap lists the functions available to value templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"uuid":   newUUID,
		"uuidv4": newUUID,
		"uuidv7": newUUIDv7,

		"now":       now,
		"timestamp": timestamp,

		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"title": title,
		"trim":  strings.TrimSpace,
		"quote": strconv.Quote,

		"base64":       base64Encode,
		"base64decode": base64Decode,
	}
}

func newUUID() string {
	return uuid.New().String()
}

// newUUIDv7 returns a time ordered identifier.
func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func timestamp() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}

func title(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func base64Encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func base64Decode(s string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func New(name string) *template.Template {
	return template.New(name).Option("missingkey=error").Funcs(FuncMap())
}

// Render executes text with vars as its data. Text without actions is
// returned unchanged.
func Render(name, text string, vars map[string]any) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	tmpl, err := New(name).Parse(text)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", err
	}
	return buf.String(), nil
}
