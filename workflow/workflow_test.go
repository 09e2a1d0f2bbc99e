// Copyright ©2021 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package workflow

import (
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	check "gopkg.in/check.v1"
)

func Test(t *testing.T) { check.TestingT(t) }

type S struct {
	dir string
}

var _ = check.Suite(&S{})

func (s *S) SetUpTest(c *check.C) { s.dir = c.MkDir() }

func (s *S) logger(c *check.C) *Logger {
	l, err := NewLogger(filepath.Join(s.dir, "log.txt"))
	c.Assert(err, check.Equals, nil)
	return l
}

func (s *S) TestLogPath(c *check.C) {
	base := filepath.Base(LogPath("out"))
	c.Check(strings.HasPrefix(base, "log_"), check.Equals, true)
	c.Check(strings.HasSuffix(base, ".txt"), check.Equals, true)
	c.Check(filepath.Dir(LogPath("out")), check.Equals, "out")
}

func (s *S) TestLogger(c *check.C) {
	l := s.logger(c)
	l.Write("step one\n\n")
	l.Write("step two\n\n")
	c.Assert(l.Close(), check.Equals, nil)

	b, err := ioutil.ReadFile(filepath.Join(s.dir, "log.txt"))
	c.Assert(err, check.Equals, nil)
	got := string(b)
	c.Check(strings.Contains(got, "Logging started at"), check.Equals, true)
	c.Check(strings.Contains(got, "step one\n\nstep two\n\n"), check.Equals, true)
	c.Check(strings.Contains(got, "Logging stopped at"), check.Equals, true)
}

func (s *S) TestNilLogger(c *check.C) {
	var l *Logger
	l.Write("discarded")
	c.Check(l.Close(), check.Equals, nil)
}

func (s *S) TestSerial(c *check.C) {
	out := filepath.Join(s.dir, "touched")
	cmds := []Command{
		{Desc: "Touching a file", Cmd: exec.Command("touch", out)},
		{Desc: "Doing nothing", Cmd: exec.Command("true")},
	}
	var seen []string
	l := s.logger(c)
	defer l.Close()
	err := Serial(cmds, l, func(desc string) { seen = append(seen, desc) })
	c.Assert(err, check.Equals, nil)
	c.Check(seen, check.DeepEquals, []string{"Touching a file", "Doing nothing"})
	_, err = os.Stat(out)
	c.Check(err, check.Equals, nil)
}

func (s *S) TestSerialFailure(c *check.C) {
	out := filepath.Join(s.dir, "not-touched")
	cmds := []Command{
		{Desc: "Failing early", Cmd: exec.Command("false")},
		{Desc: "Touching a file", Cmd: exec.Command("touch", out)},
	}
	l := s.logger(c)
	defer l.Close()
	err := Serial(cmds, l, Quiet)
	c.Assert(err, check.Not(check.Equals), nil)
	c.Check(err, check.ErrorMatches, "workflow: Failing early: .*")
	var werr Error
	_, ok := err.(Error)
	c.Check(ok, check.Equals, true, check.Commentf("got %T, want %T", err, werr))

	// The plan must stop at the first failure.
	_, err = os.Stat(out)
	c.Check(os.IsNotExist(err), check.Equals, true)
}

func (s *S) TestPrint(c *check.C) {
	out := filepath.Join(s.dir, "not-touched")
	cmds := []Command{
		{Desc: "Touching a file", Cmd: exec.Command("touch", out)},
	}
	l := s.logger(c)
	err := Print(cmds, l, Quiet)
	c.Assert(err, check.Equals, nil)
	c.Assert(l.Close(), check.Equals, nil)

	// A dry run must not execute anything.
	_, err = os.Stat(out)
	c.Check(os.IsNotExist(err), check.Equals, true)

	b, err := ioutil.ReadFile(filepath.Join(s.dir, "log.txt"))
	c.Assert(err, check.Equals, nil)
	c.Check(strings.Contains(string(b), "touch "+out), check.Equals, true)
}

func (s *S) TestCommandString(c *check.C) {
	cmd := Command{Desc: "d", Cmd: exec.Command("prog", "-a", "1", "-b", "two")}
	c.Check(cmd.String(), check.Equals, "prog -a 1 -b two")
}
