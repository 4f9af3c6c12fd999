package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"workspace-chat/auth"
	"workspace-chat/client"
	"workspace-chat/domain/chat"
	"workspace-chat/gateway/wire"

	"github.com/gookit/color"
	"github.com/spf13/pflag"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

type options struct {
	addr      string
	token     string
	secret    string
	user      string
	workspace string
	channel   string
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	var opts options
	flagSet := pflag.NewFlagSet("chatcli", pflag.ContinueOnError)
	flagSet.StringVar(&opts.addr, "addr", "localhost:50051", "gRPC address of the server")
	flagSet.StringVar(&opts.token, "token", "", "bearer token")
	flagSet.StringVar(&opts.secret, "secret", os.Getenv("JWT_SECRET"), "signing secret used to mint a token when --token is empty")
	flagSet.StringVarP(&opts.user, "user", "u", "", "user id for a minted token")
	flagSet.StringVar(&opts.workspace, "workspace", "default", "workspace id for a minted token")
	flagSet.StringVarP(&opts.channel, "channel", "c", "", "channel to talk in (first subscribed channel by default)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return exitOK, nil
		}
		return exitConfig, err
	}

	token := opts.token
	if token == "" {
		if opts.secret == "" || opts.user == "" {
			return exitConfig, fmt.Errorf("either --token or --secret with --user is required")
		}
		var err error
		token, err = auth.NewTokenManager(opts.secret, time.Hour).Generate(auth.Identity{
			UserID:      chat.UserID(opts.user),
			WorkspaceID: chat.WorkspaceID(opts.workspace),
		})
		if err != nil {
			return exitConfig, err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := client.DialAndConnect(ctx, opts.addr, token)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to %s: %w", opts.addr, err)
	}
	defer func() { _ = conn.Close() }()

	welcome := conn.Welcome()
	channelID := opts.channel
	if channelID == "" && len(welcome.Channels) > 0 {
		channelID = welcome.Channels[0]
	}
	color.Green.Printf(">>> Connected to %s as %s, %d channel(s)\n", opts.addr, welcome.UserID, len(welcome.Channels))
	if channelID == "" {
		color.Yellow.Println("No channel yet: /create <name> opens one")
	}

	cli := &session{
		conn:      conn,
		timelines: make(map[string]*client.Timeline),
		backfills: make(map[string]*client.Backfill),
	}
	cli.switchTo(channelID)

	go cli.receive(stop)
	go cli.heartbeat(ctx)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			color.Gray.Println("Stopping client...")
			return exitOK, nil
		case line, ok := <-lines:
			if !ok {
				return exitOK, nil
			}
			if err := cli.command(strings.TrimSpace(line)); err != nil {
				color.Red.Println(err.Error())
			}
		}
	}
}

type session struct {
	mu        sync.Mutex
	conn      *client.Conn
	channelID string
	timelines map[string]*client.Timeline
	// backfills are keyed by the ref of the history page they wait for.
	backfills map[string]*client.Backfill
}

func (s *session) timeline(channelID string) *client.Timeline {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.timelines[channelID]
	if !ok {
		t = client.NewTimeline(channelID)
		s.timelines[channelID] = t
	}
	return t
}

func (s *session) switchTo(channelID string) {
	s.channelID = channelID
	if channelID != "" {
		s.timeline(channelID)
		_, _ = s.conn.Send(wire.Intent{Op: wire.OpHistory, ChannelID: channelID})
	}
}

func (s *session) command(line string) error {
	if line == "" {
		return nil
	}
	if !strings.HasPrefix(line, "/") {
		if s.channelID == "" {
			return fmt.Errorf("no channel selected")
		}
		_, err := s.conn.SendMessage(s.timeline(s.channelID), line, nil)
		return err
	}
	fields := strings.Fields(line)
	intent := wire.Intent{ChannelID: s.channelID}
	switch fields[0] {
	case "/join":
		if len(fields) < 2 {
			return fmt.Errorf("usage: /join <channel>")
		}
		s.switchTo(fields[1])
		intent = wire.Intent{Op: wire.OpSubscribe, ChannelID: fields[1]}
	case "/create":
		intent = wire.Intent{Op: wire.OpCreateChannel, Kind: string(chat.KindOpen), Name: strings.Join(fields[1:], " ")}
	case "/invite":
		if len(fields) < 2 {
			return fmt.Errorf("usage: /invite <user>")
		}
		intent.Op, intent.UserID = wire.OpAddMember, fields[1]
	case "/typing":
		intent.Op = wire.OpTyping
	case "/read", "/react", "/delete":
		if len(fields) < 2 {
			return fmt.Errorf("usage: %s <message id>", fields[0])
		}
		id, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return err
		}
		intent.MessageID = id
		switch fields[0] {
		case "/read":
			intent.Op = wire.OpMarkRead
		case "/delete":
			intent.Op = wire.OpDelete
		default:
			if len(fields) < 3 {
				return fmt.Errorf("usage: /react <message id> <symbol>")
			}
			intent.Op, intent.Symbol, intent.Add = wire.OpReact, fields[2], true
		}
	case "/history":
		intent.Op = wire.OpHistory
	case "/quit":
		return s.conn.Close()
	default:
		return fmt.Errorf("unknown command %s", fields[0])
	}
	_, err := s.conn.Send(intent)
	return err
}

func (s *session) heartbeat(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			channels := make([]string, 0, len(s.timelines))
			for channelID := range s.timelines {
				channels = append(channels, channelID)
			}
			s.mu.Unlock()
			for _, channelID := range channels {
				_, _ = s.conn.Send(wire.Intent{Op: wire.OpHeartbeat, ChannelID: channelID})
			}
		}
	}
}

func (s *session) receive(stop context.CancelFunc) {
	defer stop()
	for {
		frame, err := s.conn.Recv()
		if err != nil {
			color.Red.Printf("Stream closed: %v\n", err)
			return
		}
		switch frame.Type {
		case wire.FrameEvent:
			s.onEvent(*frame.Event)
		case wire.FrameGap:
			color.Yellow.Printf("Missed events on %s, backfilling up to seq %d\n", frame.ChannelID, frame.HeadSeq)
			s.startBackfill(frame)
		case wire.FrameResult:
			if s.continueBackfill(frame) {
				continue
			}
			if messages, err := client.Result[[]wire.Message](frame); err == nil && len(messages) > 0 {
				t := s.timeline(messages[0].ChannelID)
				t.Seed(messages)
				render(t)
			}
		case wire.FrameError:
			color.Red.Printf("[%s] %s\n", frame.Error.Code, frame.Error.Message)
		}
	}
}

func (s *session) onEvent(e wire.Event) {
	t := s.timeline(e.ChannelID)
	if !t.Apply(e) {
		return
	}
	if t.NeedsResync() {
		_, _ = s.conn.Send(wire.Intent{Op: wire.OpResync, ChannelID: e.ChannelID, SinceSeq: t.LastSeq()})
	}
	payload, err := e.Payload()
	if err != nil {
		return
	}
	switch p := payload.(type) {
	case *wire.MessageCreated:
		printMessage(p.Message, false)
	case *wire.PresenceChanged:
		state := "left"
		if p.Live {
			state = "is here"
		}
		color.Gray.Printf("* %s %s (%d live)\n", p.UserID, state, p.LiveCount)
	case *wire.TypingChanged:
		if p.Typing {
			color.Gray.Printf("* %s is typing...\n", p.UserID)
		}
	case *wire.ReadMarkerAdvanced:
		color.Gray.Printf("* %s read up to #%d\n", p.UserID, p.MessageID)
	default:
		if client.IsMessageEvent(e.Kind) {
			render(t)
		}
	}
}

func (s *session) startBackfill(gap wire.Frame) {
	b, err := s.conn.StartBackfill(s.timeline(gap.ChannelID), gap)
	if err != nil {
		color.Red.Printf("Backfill failed: %v\n", err)
		return
	}
	s.mu.Lock()
	s.backfills[b.Ref()] = b
	s.mu.Unlock()
}

// continueBackfill reports whether frame answered a backfill page.
func (s *session) continueBackfill(frame wire.Frame) bool {
	s.mu.Lock()
	b, ok := s.backfills[frame.Ref]
	delete(s.backfills, frame.Ref)
	s.mu.Unlock()
	if !ok {
		return false
	}
	done, err := b.Continue(s.conn, frame)
	switch {
	case err != nil:
		color.Red.Printf("Backfill failed: %v\n", err)
	case done:
		render(b.Timeline())
	default:
		s.mu.Lock()
		s.backfills[b.Ref()] = b
		s.mu.Unlock()
	}
	return true
}

func render(t *client.Timeline) {
	color.Cyan.Printf("--- %s ---\n", t.ChannelID())
	for _, entry := range t.Visible() {
		printMessage(entry.Message, entry.Pending)
	}
}

func printMessage(m wire.Message, pending bool) {
	switch {
	case pending:
		color.Gray.Printf("   (sending) %s: %s\n", m.AuthorID, m.Body)
	case m.DeletedAt != nil:
		color.Gray.Printf("#%d [deleted]\n", m.ID)
	default:
		fmt.Printf("#%d [%s] %s: %s%s\n", m.ID, m.CreatedAt.Local().Format(time.TimeOnly),
			color.Bold.Sprint(m.AuthorID), m.Body, reactions(m.Reactions))
	}
}

func reactions(r map[string][]string) string {
	if len(r) == 0 {
		return ""
	}
	var b strings.Builder
	for symbol, users := range r {
		fmt.Fprintf(&b, " %s%d", symbol, len(users))
	}
	return color.Yellow.Sprint(b.String())
}
