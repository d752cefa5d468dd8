package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrTargetNotFound is returned when the backend reports that the target
// does not exist at the requested point in history.
var ErrTargetNotFound = errors.New("target not found at this point in history")

// Backend error codes for "path does not exist at this revision".
var notFoundCodes = []string{"E160013", "E195012", "E160006"}

// Client runs the svn command line and parses its XML output.
// It implements LogFetcher, Blamer, and InfoGetter.
type Client struct {
	workdir string
	log     *logrus.Logger
}

// NewClient creates a backend client rooted at workdir. A nil logger
// disables debug logging.
func NewClient(workdir string, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Client{workdir: workdir, log: logger}
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "svn", args...)
	cmd.Dir = c.workdir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.log.WithField("args", strings.Join(args, " ")).Debug("running svn")

	output, err := cmd.Output()
	if err != nil {
		msg := stderr.String()
		for _, code := range notFoundCodes {
			if strings.Contains(msg, code) {
				return nil, fmt.Errorf("svn %s: %w", args[0], ErrTargetNotFound)
			}
		}
		return nil, fmt.Errorf("svn %s failed: %w: %s", args[0], err, strings.TrimSpace(msg))
	}
	return output, nil
}

// Log fetches up to limit commits on target from revision from back to
// revision to, newest first. With includeMerged, merge-source entries are
// surfaced as FromMerge records after their merging commit.
func (c *Client) Log(ctx context.Context, target, from, to string, limit int, includeMerged bool) ([]Commit, error) {
	args := []string{"log", "--xml", "--verbose", "-r", from + ":" + to}
	if limit > 0 {
		args = append(args, "-l", strconv.Itoa(limit))
	}
	if includeMerged {
		args = append(args, "--use-merge-history")
	}
	args = append(args, target)

	output, err := c.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return parseLog(output)
}

// Blame fetches per-line authorship for target.
func (c *Client) Blame(ctx context.Context, target string, includeMerged bool) ([]BlameLine, error) {
	args := []string{"blame", "--xml"}
	if includeMerged {
		args = append(args, "--use-merge-history")
	}
	args = append(args, target)

	output, err := c.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return parseBlame(output)
}

// Info resolves target to its repository identity, optionally at a revision.
func (c *Client) Info(ctx context.Context, target, revision string) (Info, error) {
	args := []string{"info", "--xml"}
	if revision != "" {
		args = append(args, "-r", revision)
	}
	args = append(args, target)

	output, err := c.run(ctx, args...)
	if err != nil {
		return Info{}, err
	}
	return parseInfo(output)
}

// Diff returns the unified diff of target between two revisions.
func (c *Client) Diff(ctx context.Context, target, from, to string) (string, error) {
	output, err := c.run(ctx, "diff", "-r", from+":"+to, target)
	if err != nil {
		return "", err
	}
	return string(output), nil
}
