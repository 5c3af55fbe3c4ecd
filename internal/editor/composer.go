package editor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/debemdeboas/draftboard/internal/model"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	outputStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

const composerHelp = `Type to append lines to the content. Commands:
  :title <text>    set the title
  :tags <a, b>     set the comma-separated tags
  :status <s>      draft or published
  :show            print the current form
  :save            save now
  :publish         publish the blog
  :quit            save and exit`

// Composer is a line-oriented front end for a Session.
type Composer struct {
	session *Session
	in      io.Reader
	out     io.Writer
}

func NewComposer(s *Session, in io.Reader, out io.Writer) *Composer {
	return &Composer{session: s, in: in, out: out}
}

func (c *Composer) println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

func (c *Composer) report(msg string) {
	c.println(outputStyle.Render(msg))
}

func (c *Composer) prompt() {
	label := "> "
	if ind := Indicator(c.session.Status()); ind != "" {
		label = ind + " > "
	}
	fmt.Fprint(c.out, promptStyle.Render(label))
}

// Run reads lines until :quit or end of input, then makes a last save
// attempt. Only a failed last save is returned.
func (c *Composer) Run(ctx context.Context) error {
	c.println(composerHelp)

	scanner := bufio.NewScanner(c.in)
	for {
		c.prompt()
		if !scanner.Scan() {
			break
		}

		line := scanner.Text()
		if !strings.HasPrefix(line, ":") {
			c.session.AppendContent(line)
			continue
		}

		cmd, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "quit", "q":
			return c.finish(ctx)
		case "title":
			c.session.SetTitle(arg)
		case "tags":
			c.session.SetTags(arg)
		case "status":
			if err := c.session.SetStatus(model.Status(arg)); err != nil {
				c.report("Error: " + err.Error())
			}
		case "show":
			c.show()
		case "save":
			if err := c.session.Save(ctx); err != nil {
				c.report("Error: " + err.Error())
			} else {
				c.report("Saved " + string(c.session.BlogID()))
			}
		case "publish":
			blog, err := c.session.Publish(ctx)
			if err != nil {
				c.report("Error: " + err.Error())
				continue
			}
			c.report("Blog published successfully: " + string(blog.ID))
		case "help":
			c.println(composerHelp)
		default:
			c.report("Unknown command :" + cmd)
		}
	}

	if err := scanner.Err(); err != nil {
		c.report("Error reading input: " + err.Error())
	}
	return c.finish(ctx)
}

func (c *Composer) finish(ctx context.Context) error {
	if err := c.session.Save(ctx); err != nil {
		c.report("Failed to save: " + err.Error())
		return err
	}
	c.println()
	return nil
}

func (c *Composer) show() {
	d := c.session.Draft()
	c.println(titleStyle.Render(d.Title) + "  " + badge(d.Status))
	c.println(mutedStyle.Render("tags: " + d.Tags))
	c.println(d.Content)
}
