package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/clwm/errors"
)

// prompt asks question and reads one line. A terminal gets an interactive pterm
// input; piped stdin is read line by line with the question on stderr.
func (s *session) prompt(cmd *cobra.Command, question string) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		answer, err := pterm.DefaultInteractiveTextInput.Show(question)
		if err != nil {
			return "", errors.Wrapf(err, "failed to read answer to %q", question)
		}
		return strings.TrimSpace(answer), nil
	}

	fmt.Fprintln(cmd.ErrOrStderr(), question)
	if s.reader == nil {
		s.reader = bufio.NewReader(in)
	}
	line, err := s.reader.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			return "", errors.Wrapf(err, "failed to read answer to %q", question)
		}
		if line == "" {
			return "", errors.Newf("no answer to %q", question)
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// stringArg returns the flag value when given, otherwise prompts for it.
func (s *session) stringArg(cmd *cobra.Command, flag, question string) (string, error) {
	if cmd.Flags().Changed(flag) {
		return cmd.Flags().GetString(flag)
	}
	return s.prompt(cmd, question)
}

func (s *session) intArg(cmd *cobra.Command, flag, question string) (int64, error) {
	if cmd.Flags().Changed(flag) {
		return cmd.Flags().GetInt64(flag)
	}
	answer, err := s.prompt(cmd, question)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(answer), 10, 64)
	if err != nil {
		return 0, errors.Newf("%q is not a whole number", answer)
	}
	return n, nil
}

func (s *session) boolArg(cmd *cobra.Command, flag, question string) (bool, error) {
	if cmd.Flags().Changed(flag) {
		return cmd.Flags().GetBool(flag)
	}
	answer, err := s.prompt(cmd, question)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(strings.TrimSpace(answer))
	if err != nil {
		return false, errors.Newf("%q is not true or false", answer)
	}
	return b, nil
}

// optionalInt returns a pointer to the flag value, or nil when the flag is unset.
func optionalInt(cmd *cobra.Command, flag string) (*int64, error) {
	if !cmd.Flags().Changed(flag) {
		return nil, nil
	}
	n, err := cmd.Flags().GetInt64(flag)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// idArg parses the positional id of update and get commands.
func idArg(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, errors.Newf("%q is not a valid id", arg)
	}
	return id, nil
}
