package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
)

// nodeHelper is preloaded into every node player.
const nodeHelper = "<helpers_dir>/js_helper.js"

// placeholders returns the replacer for the directory placeholders
// relative to the config directory dir.
func placeholders(dir string) *strings.Replacer {
	slash := func(p string) string { return filepath.ToSlash(filepath.Clean(p)) }
	return strings.NewReplacer(
		"<config_dir>", slash(dir),
		"<bots_dir>", slash(filepath.Join(dir, "..", "bots")),
		"<helpers_dir>", slash(filepath.Join(dir, "..", "helpers")),
		"<referees_dir>", slash(filepath.Join(dir, "..", "referees")),
	)
}

// resolve substitutes placeholders, injects the node helper and splits
// the referee command into argv. Player commands stay single strings;
// the referee receives each one as a single argument.
func (c *Config) resolve(dir string) error {
	c.Dir = dir
	r := placeholders(dir)

	c.Referee.Command = r.Replace(c.Referee.Command)
	if c.Referee.Command != "" {
		args, err := shellquote.Split(c.Referee.Command)
		if err != nil {
			return fmt.Errorf("%w: referee command: %w", ErrInvalidConfig, err)
		}
		c.RefereeArgs = args
	}

	for i := range c.Players {
		cmd, err := injectNodeHelper(r.Replace(c.Players[i].Command), r.Replace(nodeHelper))
		if err != nil {
			return fmt.Errorf("%w: player %d command: %w", ErrInvalidConfig, i+1, err)
		}
		c.Players[i].Command = cmd
	}
	return nil
}

// injectNodeHelper adds "-r helper" right after the "node" word of a node
// player command.
func injectNodeHelper(cmd, helper string) (string, error) {
	if !strings.HasPrefix(cmd, "node") {
		return cmd, nil
	}
	args, err := shellquote.Split(cmd)
	if err != nil {
		return "", err
	}
	for i, a := range args {
		if a != "node" {
			continue
		}
		out := make([]string, 0, len(args)+2)
		out = append(out, args[:i+1]...)
		out = append(out, "-r", helper)
		out = append(out, args[i+1:]...)
		return shellquote.Join(out...), nil
	}
	return cmd, nil
}
