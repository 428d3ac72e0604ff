package report

import (
	"bytes"
	"embed"
	htmltemplate "html/template"
	"strconv"
	"strings"
	texttemplate "text/template"
	"time"

	"followwatch/pkg/identity"
	"followwatch/pkg/snapshot"
	"followwatch/pkg/twitch"
)

//go:embed templates/*
var templateFS embed.FS

const (
	htmlTemplateName = "report.html.tmpl"
	textTemplateName = "report.txt.tmpl"

	// SubjectPrefix starts every report subject line
	SubjectPrefix = "Twitch follower report for"

	timestampLayout = "2006-01-02 15:04 MST"
)

var funcMap = map[string]interface{}{
	"profile": twitch.ProfileURL,
	"stamp":   func(t time.Time) string { return t.UTC().Format(timestampLayout) },
}

var (
	htmlTemplate = htmltemplate.Must(
		htmltemplate.New(htmlTemplateName).Funcs(htmltemplate.FuncMap(funcMap)).ParseFS(templateFS, "templates/"+htmlTemplateName),
	)
	textTemplate = texttemplate.Must(
		texttemplate.New(textTemplateName).Funcs(texttemplate.FuncMap(funcMap)).ParseFS(templateFS, "templates/"+textTemplateName),
	)
)

// Report pairs two captures of a channel with the changes between them
type Report struct {
	Before *snapshot.Snapshot
	After  *snapshot.Snapshot
	Diff   identity.Result
}

// New creates a report. before and after must be captures of the same channel.
func New(before, after *snapshot.Snapshot, diff identity.Result) *Report {
	return &Report{Before: before, After: after, Diff: diff}
}

// Channel returns the channel as it was given for the latest capture
func (r *Report) Channel() string {
	return r.After.Channel()
}

// Subject returns the e-mail subject for a report sent at now
func (r *Report) Subject(now time.Time) string {
	return SubjectPrefix + " " + now.Format("01/02")
}

// Summary is a one-line description used by desktop and log notifications
func (r *Report) Summary() string {
	var b strings.Builder
	b.WriteString(r.Channel())
	b.WriteString(": ")
	b.WriteString(plural(len(r.Diff.Removed), "unfollow", "unfollows"))
	b.WriteString(", ")
	b.WriteString(plural(len(r.Diff.Added), "new follower", "new followers"))
	return b.String()
}

// view is the data handed to the templates
type view struct {
	Subject     string
	Channel     string
	Before      time.Time
	After       time.Time
	BeforeCount int
	AfterCount  int
	Removed     []string
	Added       []string
}

func (r *Report) view(now time.Time) view {
	return view{
		Subject:     r.Subject(now),
		Channel:     r.Channel(),
		Before:      r.Before.Timestamp(),
		After:       r.After.Timestamp(),
		BeforeCount: r.Before.Len(),
		AfterCount:  r.After.Len(),
		Removed:     r.Diff.Removed,
		Added:       r.Diff.Added,
	}
}

// RenderHTML renders the HTML body of a report sent at now
func (r *Report) RenderHTML(now time.Time) (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, r.view(now)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderText renders the plain-text body of a report sent at now
func (r *Report) RenderText(now time.Time) (string, error) {
	var buf bytes.Buffer
	if err := textTemplate.Execute(&buf, r.view(now)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}
