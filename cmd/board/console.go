package main

import (
	"board-lab/domain"
	"board-lab/domain/chat"
	"board-lab/domain/event"
	"board-lab/runtime"
	"board-lab/services"
	"board-lab/sink"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

const joinTimeout = 10 * time.Second

const help = `/host                 advertise this whiteboard
/search               look for whiteboards nearby
/boards               list the whiteboards found
/join N               join whiteboard N
/leave                leave the joined whiteboard
/text X Y words...    add a text box centred on X,Y
/draw X,Y X,Y ...     add a stroke
/photo PATH X Y W H   add a picture
/objects              list the objects
/select N             take the selection lock on object N
/deselect             release the selection
/move N X Y           move object N
/edit N words...      replace the text of object N
/remove N             remove object N
/find terms [--from nick] [--limit n]
/history [more]       stored messages, most recent first
/activity             latest whiteboard changes
/who                  participants seen on this board
/stats                dropped envelopes and worker restarts
/quit
anything else is sent to the chat`

// console is the line-oriented front of a session. Output from the session buses and from
// commands is serialized on out.
type console struct {
	mu       sync.Mutex
	out      io.Writer
	session  *runtime.Orchestrator
	chat     *services.ChatService
	board    *services.WhiteboardService
	activity *sink.ActivitySink
	cursor   *string
}

func newConsole(out io.Writer, session *runtime.Orchestrator, chat *services.ChatService,
	board *services.WhiteboardService, activity *sink.ActivitySink) *console {
	return &console{out: out, session: session, chat: chat, board: board, activity: activity}
}

func (c *console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *console) banner() {
	c.printf("%s %s, type /help", color.Cyan.Render("Welcome"), color.Bold.Render(c.session.Me().String()))
}

// subscribe prints what peers do. Handlers run on the session goroutines and only print.
func (c *console) subscribe() {
	me := c.session.Me()
	c.session.Chat.OnReceived.Subscribe(func(msg chat.Message) {
		if msg.Sender.Equal(me) {
			return
		}
		c.printf("%s %s", color.Magenta.Sprintf("[%s]", msg.Sender.Nickname), msg.Content)
	})
	c.session.Engine.OnSelectedID.Subscribe(func(id *uuid.UUID) {
		if id == nil {
			c.printf("%s", color.Gray.Render("selection released"))
		}
	})
	c.session.Presence.OnPresence.Subscribe(func(e event.PresenceEvent) {
		switch evt := e.(type) {
		case event.WhiteboardsFound:
			c.printf("%s", color.Green.Sprintf("%d whiteboard(s) nearby, /boards to list", len(evt.Whiteboards)))
		case event.WhiteboardLost:
			c.printf("%s", color.Yellow.Sprintf("whiteboard %s is gone", evt.ID))
		case event.PeerConnectionRequested:
			c.printf("%s", color.Green.Sprintf("%s asked to join, accepted=%t", evt.Connection.Name, evt.Accepted))
		case event.CannotConnect:
			c.printf("%s", color.Red.Sprintf("connection lost: %v", evt.Err))
		}
	})
}

// exec runs one console line and reports whether the session should end.
func (c *console) exec(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, "/") {
		if _, err := c.chat.Send(line); err != nil {
			c.fail(err)
		}
		return false
	}

	fields := strings.Fields(line)
	args := fields[1:]
	var err error
	switch fields[0] {
	case "/quit", "/exit":
		return true
	case "/help":
		c.printf(help)
	case "/host":
		err = c.session.Host()
	case "/search":
		err = c.session.Presence.StartSearching()
	case "/boards":
		c.boards()
	case "/join":
		err = c.join(ctx, args)
	case "/leave":
		c.session.Leave()
	case "/text":
		err = c.text(args)
	case "/draw":
		err = c.draw(args)
	case "/photo":
		err = c.photo(args)
	case "/objects":
		c.objects()
	case "/select":
		err = c.withObject(args, c.board.Select)
	case "/deselect":
		c.board.Deselect()
	case "/move":
		err = c.move(args)
	case "/edit":
		err = c.edit(args)
	case "/remove":
		err = c.withObject(args, c.board.Remove)
	case "/find":
		err = c.find(ctx, line)
	case "/history":
		err = c.history(args)
	case "/activity":
		c.changes()
	case "/who":
		c.who()
	case "/stats":
		c.stats()
	default:
		err = fmt.Errorf("unknown command %s", fields[0])
	}
	if err != nil {
		c.fail(err)
	}
	return false
}

func (c *console) fail(err error) {
	c.printf("%s", color.Red.Sprintf("error: %v", err))
}

func (c *console) boards() {
	whiteboards := c.session.Presence.Whiteboards()
	c.table([]string{"#", "Name", "Participants"}, lo.Map(whiteboards, func(wb domain.Whiteboard, i int) []string {
		return []string{strconv.Itoa(i + 1), wb.Name, domain.EncodeParticipantIcons(wb.ParticipantIcons)}
	}))
}

func (c *console) join(ctx context.Context, args []string) error {
	wb, err := pick(c.session.Presence.Whiteboards(), args)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, joinTimeout)
	defer cancel()
	if err := c.session.Join(ctx, wb); err != nil {
		return err
	}
	c.printf("%s", color.Green.Sprintf("joined %s", wb.Name))
	return nil
}

func (c *console) text(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: /text X Y words")
	}
	center, err := parsePoint(args[0], args[1])
	if err != nil {
		return err
	}
	_, err = c.board.AddText(center, strings.Join(args[2:], " "))
	return err
}

func (c *console) draw(args []string) error {
	points := make([]domain.Point, 0, len(args))
	for _, arg := range args {
		x, y, ok := strings.Cut(arg, ",")
		if !ok {
			return fmt.Errorf("point %q is not X,Y", arg)
		}
		p, err := parsePoint(x, y)
		if err != nil {
			return err
		}
		points = append(points, p)
	}
	_, err := c.board.AddDrawing(points)
	return err
}

func (c *console) photo(args []string) error {
	if len(args) != 5 {
		return fmt.Errorf("usage: /photo PATH X Y W H")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	center, err := parsePoint(args[1], args[2])
	if err != nil {
		return err
	}
	dims, err := parsePoint(args[3], args[4])
	if err != nil {
		return err
	}
	_, err = c.board.AddPhoto(data, center, domain.Size{Width: dims.X, Height: dims.Y})
	return err
}

func (c *console) objects() {
	selected, _ := c.board.Selected()
	c.table([]string{"#", "Kind", "Position", "Size", "Held by", "Content"},
		lo.Map(c.board.Objects(), func(obj domain.WhiteboardObject, i int) []string {
			holder := "-"
			if obj.SelectedBy != nil {
				holder = obj.SelectedBy.Nickname
			}
			index := strconv.Itoa(i + 1)
			if obj.ID == selected {
				index += "*"
			}
			return []string{index, string(obj.Kind),
				fmt.Sprintf("%.0f,%.0f", obj.Position.X, obj.Position.Y),
				fmt.Sprintf("%.0fx%.0f", obj.Size.Width, obj.Size.Height),
				holder, describe(obj)}
		}))
}

func (c *console) withObject(args []string, fn func(uuid.UUID) error) error {
	obj, err := pick(c.board.Objects(), args)
	if err != nil {
		return err
	}
	return fn(obj.ID)
}

func (c *console) move(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: /move N X Y")
	}
	to, err := parsePoint(args[1], args[2])
	if err != nil {
		return err
	}
	return c.withObject(args[:1], func(id uuid.UUID) error { return c.board.Move(id, to) })
}

func (c *console) edit(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: /edit N words")
	}
	text := strings.Join(args[1:], " ")
	return c.withObject(args[:1], func(id uuid.UUID) error { return c.board.Edit(id, text) })
}

func (c *console) find(ctx context.Context, line string) error {
	found, err := c.chat.Search(ctx, line)
	if err != nil {
		return err
	}
	c.messages(found)
	return nil
}

// history starts from the most recent message, "/history more" continues where the last page stopped.
func (c *console) history(args []string) error {
	cursor := c.cursor
	if len(args) == 0 || args[0] != "more" {
		cursor = nil
	}
	page, next, err := c.chat.History(cursor)
	if err != nil {
		return err
	}
	c.cursor = next
	c.messages(page)
	if next == nil {
		c.printf("%s", color.Gray.Render("end of history"))
	}
	return nil
}

func (c *console) changes() {
	c.table([]string{"Change", "Kind", "Object", "Held by"},
		lo.Map(c.activity.Recent(), func(evt event.ObjectChanged, _ int) []string {
			holder := "-"
			if evt.Object.SelectedBy != nil {
				holder = evt.Object.SelectedBy.Nickname
			}
			return []string{string(evt.Change), string(evt.Object.Kind), evt.Object.ID.String()[:8], holder}
		}))
}

func (c *console) who() {
	c.table([]string{"Nickname", "Icon"}, lo.Map(c.session.Participants(), func(p domain.Profile, _ int) []string {
		return []string{p.Nickname, string(p.Icon)}
	}))
}

func (c *console) stats() {
	c.table([]string{"Counter", "Value"}, [][]string{
		{"delivery failures", strconv.FormatUint(c.session.DeliveryFailures(), 10)},
		{"worker restarts", strconv.FormatUint(c.session.Restarts(), 10)},
	})
}

func (c *console) messages(messages []chat.Message) {
	c.table([]string{"At", "From", "Message"}, lo.Map(messages, func(m chat.Message, _ int) []string {
		return []string{m.SentAt.Format(time.TimeOnly), m.Sender.Nickname, m.Content}
	}))
}

func (c *console) table(header []string, rows [][]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	table := tablewriter.NewWriter(c.out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.AppendBulk(rows)
	table.Render()
}

func describe(obj domain.WhiteboardObject) string {
	switch obj.Kind {
	case domain.ObjectDrawing:
		return fmt.Sprintf("%d points", len(obj.Points))
	case domain.ObjectPhoto:
		return obj.PhotoID.String()[:8]
	default:
		return obj.Text
	}
}

// pick resolves a 1-based index typed by the user.
func pick[T any](items []T, args []string) (T, error) {
	var zero T
	if len(args) == 0 {
		return zero, fmt.Errorf("missing index")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(items) {
		return zero, fmt.Errorf("no item %s among %d", args[0], len(items))
	}
	return items[n-1], nil
}

func parsePoint(x, y string) (domain.Point, error) {
	px, err := strconv.ParseFloat(x, 64)
	if err != nil {
		return domain.Point{}, fmt.Errorf("coordinate %q: %w", x, err)
	}
	py, err := strconv.ParseFloat(y, 64)
	if err != nil {
		return domain.Point{}, fmt.Errorf("coordinate %q: %w", y, err)
	}
	return domain.Point{X: px, Y: py}, nil
}
