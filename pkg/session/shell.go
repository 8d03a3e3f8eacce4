package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/assemblyline/pkg/index"
	"github.com/Sumatoshi-tech/assemblyline/pkg/record"
	"github.com/Sumatoshi-tech/assemblyline/pkg/render"
)

// Menu choices.
const (
	choiceExit = iota
	choiceDisplay
	choiceInsert
	choiceRemove
	choiceStats
)

// Sort keys offered by the display menu.
const (
	sortKeyID       = 0
	sortKeyDuration = 1
)

const (
	banner    = "*************************\nAssembly line management\n*************************"
	separator = "-------------------------------"
	menu      = `Choose an option:
1) Display items
2) Insert item
3) Remove item
4) Statistics
0) Exit`
	msgEmpty = "Data set is empty"
)

// errInputClosed ends the shell when input runs out mid-dialogue.
var errInputClosed = errors.New("input closed")

// Shell is the interactive menu over a Session.
type Shell struct {
	session  *Session
	in       *bufio.Scanner
	out      io.Writer
	renderer *render.Renderer
	style    *render.Style
}

// NewShell creates a shell that reads answers from in and renders to out
// through renderer.
func NewShell(session *Session, in io.Reader, out io.Writer, renderer *render.Renderer) *Shell {
	return &Shell{
		session:  session,
		in:       bufio.NewScanner(in),
		out:      out,
		renderer: renderer,
		style:    renderer.Style(),
	}
}

// Run shows the menu until the user exits, input ends or ctx is done.
func (sh *Shell) Run(ctx context.Context) error {
	sh.println(sh.style.Title(banner))

	for ctx.Err() == nil {
		sh.println("")
		sh.println(menu)
		sh.println("")

		choice, err := sh.askInt("Choice:", "Choice")
		if err != nil {
			return sh.closed(err)
		}

		sh.println("")

		switch choice {
		case choiceExit:
			return nil
		case choiceDisplay:
			err = sh.display(ctx)
		case choiceInsert:
			err = sh.insert(ctx)
		case choiceRemove:
			err = sh.remove(ctx)
		case choiceStats:
			err = sh.renderer.Stats(sh.session.Stats())
		default:
			sh.println(sh.style.Warn("Option: %d) does not exist", choice))
		}

		if err != nil {
			return sh.closed(err)
		}
	}

	return ctx.Err()
}

// closed turns end of input into a normal exit.
func (sh *Shell) closed(err error) error {
	if errors.Is(err, errInputClosed) {
		return nil
	}

	return err
}

func (sh *Shell) display(ctx context.Context) error {
	if sh.session.Len() == 0 {
		sh.empty()

		return nil
	}

	sh.println("Display items, please choose a sort key")
	sh.println("0) Product identification code")
	sh.println("1) Processing time")

	order, err := sh.askSortKey()
	if err != nil {
		return err
	}

	sections := sh.session.Show(ctx, order, index.TreeView, index.ListView)

	return sh.renderer.Sections(sections...)
}

func (sh *Shell) askSortKey() (index.Ordering, error) {
	for {
		key, err := sh.askInt("Sort key:", "Sort key")
		if err != nil {
			return 0, err
		}

		switch key {
		case sortKeyID:
			return index.ByID, nil
		case sortKeyDuration:
			return index.ByDuration, nil
		default:
			sh.println(sh.style.Warn("Sort key %d) does not exist, try again", key))
		}
	}
}

func (sh *Shell) insert(ctx context.Context) error {
	sh.println("Insert item")
	sh.println(separator)

	var fields record.Fields

	err := sh.askField(&fields, &fields.ProductID, "ProductID", "Product id:")
	if err != nil {
		return err
	}

	err = sh.askField(&fields, &fields.PieceName, "PieceName", "Name (use underscores instead of spaces):")
	if err != nil {
		return err
	}

	err = sh.askField(&fields, &fields.PieceID, "PieceID", "Piece id:")
	if err != nil {
		return err
	}

	entry, err := sh.askClock("Time entry (HH:MM:SS format):", -1)
	if err != nil {
		return err
	}

	exit, err := sh.askClock("Time exit (HH:MM:SS format):", entry)
	if err != nil {
		return err
	}

	fields.TimeEntry, fields.TimeExit = entry.String(), exit.String()

	outcome, err := sh.session.Insert(ctx, fields)
	if err != nil {
		sh.println(sh.style.Error("Insert failed: %v", err))

		return nil
	}

	err = sh.renderer.Timings("insert", outcome.Timings...)
	if err != nil {
		return err
	}

	sh.println(sh.style.Success("Record inserted successfully"))

	return nil
}

// askField prompts until value passes validation of the named field. A
// product id must also be new.
func (sh *Shell) askField(fields *record.Fields, value *string, name, prompt string) error {
	for {
		answer, err := sh.ask(prompt)
		if err != nil {
			return err
		}

		*value = answer

		err = fields.ValidatePartial(name)

		switch {
		case err != nil:
			sh.println(sh.style.Warn("%v, try again", err))
		case name == "ProductID" && sh.session.Exists(answer):
			sh.println(sh.style.Warn("A record with product id %s already exists, try again", answer))
		default:
			return nil
		}
	}
}

// askClock prompts for a time of day no earlier than floor. A negative
// floor accepts any time.
func (sh *Shell) askClock(prompt string, floor record.Clock) (record.Clock, error) {
	for {
		answer, err := sh.ask(prompt)
		if err != nil {
			return 0, err
		}

		clock, err := record.ParseClock(answer)

		switch {
		case err != nil:
			sh.println(sh.style.Warn("Time must be expressed as HH:MM:SS, try again"))
		case clock < floor:
			sh.println(sh.style.Warn("Time must not be earlier than %s, try again", floor))
		default:
			return clock, nil
		}
	}
}

func (sh *Shell) remove(ctx context.Context) error {
	sh.println("Remove item")
	sh.println(separator)

	if sh.session.Len() == 0 {
		sh.empty()

		return nil
	}

	var productID string

	for {
		answer, err := sh.ask("Product id to remove:")
		if err != nil {
			return err
		}

		if sh.session.Exists(answer) {
			productID = answer

			break
		}

		sh.println(sh.style.Warn("Product id does not exist, try again"))
	}

	outcome, err := sh.session.Remove(ctx, productID)
	if err != nil {
		sh.println(sh.style.Error("Remove failed: %v", err))

		return nil
	}

	err = sh.renderer.Timings("remove", outcome.Timings...)
	if err != nil {
		return err
	}

	sh.println(sh.style.Success("Record removed successfully"))

	return nil
}

func (sh *Shell) empty() {
	sh.println(separator)
	sh.println(sh.style.Warn(msgEmpty))
	sh.println(separator)
}

// ask prompts and returns the next non-blank line, trimmed.
func (sh *Shell) ask(prompt string) (string, error) {
	fmt.Fprint(sh.out, sh.style.Prompt(prompt))

	for sh.in.Scan() {
		answer := strings.TrimSpace(sh.in.Text())
		if answer != "" {
			return answer, nil
		}
	}

	err := sh.in.Err()
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}

	return "", errInputClosed
}

// askInt prompts until the answer is an integer.
func (sh *Shell) askInt(prompt, label string) (int, error) {
	for {
		answer, err := sh.ask(prompt)
		if err != nil {
			return 0, err
		}

		value, err := strconv.Atoi(answer)
		if err == nil {
			return value, nil
		}

		sh.println(sh.style.Warn("%s must be of type integer, try again", label))
	}
}

func (sh *Shell) println(line string) {
	fmt.Fprintln(sh.out, line)
}
