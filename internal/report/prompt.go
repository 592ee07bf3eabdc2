package report

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
)

const promptMessage = "Enter publisher name or id: "

// Prompter asks the user for the publisher to report on.
type Prompter interface {
	Ask(ctx context.Context) (string, error)
}

// NewPrompter returns a survey prompt when in is an interactive terminal and
// a plain line reader otherwise.
func NewPrompter(in io.Reader, out io.Writer) Prompter {
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		if o, ok := out.(*os.File); ok {
			return &surveyPrompter{in: f, out: o}
		}
	}
	return &linePrompter{in: bufio.NewReader(in), out: out}
}

type surveyPrompter struct {
	in  *os.File
	out *os.File
}

func (p *surveyPrompter) Ask(ctx context.Context) (string, error) {
	var answer string
	q := &survey.Input{Message: strings.TrimSpace(promptMessage)}
	err := survey.AskOne(q, &answer,
		survey.WithStdio(p.in, p.out, os.Stderr),
		survey.WithValidator(survey.Required),
	)
	if err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}
	return answer, ctx.Err()
}

type linePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *linePrompter) Ask(ctx context.Context) (string, error) {
	if _, err := io.WriteString(p.out, promptMessage); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read publisher: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
