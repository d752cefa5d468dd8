package vcs

import (
	"encoding/xml"
	"fmt"
	"time"
)

// svn emits ISO 8601 timestamps with microseconds, e.g.
// 2024-03-01T12:34:56.123456Z.
const svnTimeLayout = "2006-01-02T15:04:05.000000Z"

type xmlLog struct {
	XMLName xml.Name      `xml:"log"`
	Entries []xmlLogEntry `xml:"logentry"`
}

// xmlLogEntry nests further logentry elements when the backend is asked
// for merge history; nested entries are the merge sources.
type xmlLogEntry struct {
	Revision string        `xml:"revision,attr"`
	Author   string        `xml:"author"`
	Date     string        `xml:"date"`
	Msg      string        `xml:"msg"`
	Paths    []xmlLogPath  `xml:"paths>path"`
	Nested   []xmlLogEntry `xml:"logentry"`
}

type xmlLogPath struct {
	Action       string `xml:"action,attr"`
	Kind         string `xml:"kind,attr"`
	CopyFromPath string `xml:"copyfrom-path,attr"`
	CopyFromRev  string `xml:"copyfrom-rev,attr"`
	Text         string `xml:",chardata"`
}

type xmlBlame struct {
	XMLName xml.Name `xml:"blame"`
	Target  struct {
		Entries []xmlBlameEntry `xml:"entry"`
	} `xml:"target"`
}

type xmlBlameEntry struct {
	LineNumber int `xml:"line-number,attr"`
	Commit     *struct {
		Revision string `xml:"revision,attr"`
		Author   string `xml:"author"`
		Date     string `xml:"date"`
	} `xml:"commit"`
}

type xmlInfo struct {
	XMLName xml.Name `xml:"info"`
	Entry   struct {
		Kind       string `xml:"kind,attr"`
		Revision   string `xml:"revision,attr"`
		URL        string `xml:"url"`
		Repository struct {
			Root string `xml:"root"`
		} `xml:"repository"`
	} `xml:"entry"`
}

func parseTime(s string) time.Time {
	if t, err := time.Parse(svnTimeLayout, s); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// parseLog decodes log XML into commit records, flattening merge-source
// sub-entries after their parent with FromMerge set.
func parseLog(data []byte) ([]Commit, error) {
	var doc xmlLog
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse log output: %w", err)
	}

	var commits []Commit
	for _, e := range doc.Entries {
		commits = appendLogEntry(commits, e, false)
	}
	return commits, nil
}

func appendLogEntry(commits []Commit, e xmlLogEntry, fromMerge bool) []Commit {
	c := Commit{
		Revision:  e.Revision,
		Author:    e.Author,
		Date:      parseTime(e.Date),
		Message:   e.Msg,
		FromMerge: fromMerge,
	}
	for _, p := range e.Paths {
		c.Changes = append(c.Changes, PathChange{
			Path:         p.Text,
			Action:       Action(p.Action),
			Kind:         p.Kind,
			CopyFromPath: p.CopyFromPath,
			CopyFromRev:  p.CopyFromRev,
		})
	}
	commits = append(commits, c)
	for _, nested := range e.Nested {
		commits = appendLogEntry(commits, nested, true)
	}
	return commits
}

// parseBlame decodes blame XML. The backend numbers lines from 1;
// callers see zero-based lines. Entries without a commit element are
// uncommitted local changes.
func parseBlame(data []byte) ([]BlameLine, error) {
	var doc xmlBlame
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse blame output: %w", err)
	}

	lines := make([]BlameLine, 0, len(doc.Target.Entries))
	for _, e := range doc.Target.Entries {
		line := BlameLine{Line: e.LineNumber - 1}
		if e.Commit != nil && e.Commit.Revision != "" {
			line.Commit = &LineCommit{
				Revision: e.Commit.Revision,
				Author:   e.Commit.Author,
				Date:     parseTime(e.Commit.Date),
			}
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func parseInfo(data []byte) (Info, error) {
	var doc xmlInfo
	if err := xml.Unmarshal(data, &doc); err != nil {
		return Info{}, fmt.Errorf("failed to parse info output: %w", err)
	}
	return Info{
		URL:            doc.Entry.URL,
		Revision:       doc.Entry.Revision,
		RepositoryRoot: doc.Entry.Repository.Root,
		Kind:           doc.Entry.Kind,
	}, nil
}
