package sshutil

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/rileyhilliard/rtop/internal/errors"
	"golang.org/x/crypto/ssh"
)

// Output runs cmd in a fresh session and returns its stdout. A non-zero exit
// status is an error carrying the first line of stderr. Cancelling ctx closes
// the session.
func (c *Client) Output(ctx context.Context, cmd string) ([]byte, error) {
	session, err := c.conn.NewSession()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Failed to open an SSH session on '%s'", c.Alias),
			"The connection may have dropped; it is re-dialed on the next poll")
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() { done <- session.Run(cmd) }()

	select {
	case <-ctx.Done():
		session.Close()
		return nil, errors.WrapWithCode(ctx.Err(), errors.ErrProbe,
			fmt.Sprintf("Command on '%s' did not finish in time", c.Alias), "")
	case err = <-done:
	}

	if err != nil {
		var exitErr *ssh.ExitError
		if stderrors.As(err, &exitErr) {
			return nil, errors.New(errors.ErrProbe,
				fmt.Sprintf("'%s' exited with status %d on '%s': %s", cmd, exitErr.ExitStatus(), c.Alias, firstLine(stderr.String())),
				"Run the command by hand over ssh to see the full output")
		}
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Failed to run '%s' on '%s'", cmd, c.Alias), "")
	}
	return stdout.Bytes(), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
