// Command poolctl is an interactive admin REPL for exercising a
// Leader/Follower pool from the command line: register/unregister demo
// handlers, push framed messages at them, and watch the pool's elastic
// sizing react, in the same shape as the teacher codebase's redis-cli
// (cmd/cli.go) but driving this repo's own pool instead of a redis server.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/fzft/leaderpool/config"
	"github.com/fzft/leaderpool/instance"
	"github.com/fzft/leaderpool/log"
	"github.com/fzft/leaderpool/pool"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/peterh/liner"
)

func main() {
	var (
		prefix   = flag.String("prefix", "Pool", "configuration key prefix")
		size     = flag.Int("size", 2, "initial/minimum worker count")
		sizeMax  = flag.Int("size-max", 4, "maximum worker count")
		sizeWarn = flag.Int("size-warn", 0, "warn threshold; 0 derives SizeMax*80/100")
		dev      = flag.Bool("dev", isatty.IsTerminal(os.Stdout.Fd()), "development (console) logging")
	)
	flag.Parse()

	props := config.New()
	props.SetInt(*prefix+".Size", *size)
	props.SetInt(*prefix+".SizeMax", *sizeMax)
	if *sizeWarn > 0 {
		props.SetInt(*prefix+".SizeWarn", *sizeWarn)
	}

	logger, err := log.New(log.Options{Development: *dev})
	if err != nil {
		fmt.Fprintln(os.Stderr, "poolctl: building logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	inst := instance.New(logger, props)
	p, err := pool.New(inst, *prefix, 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, "poolctl: creating pool:", err)
		os.Exit(1)
	}

	repl := &session{pool: p, handlers: make(map[int]*pipeHandler)}
	defer repl.shutdown()

	if isatty.IsTerminal(os.Stdin.Fd()) {
		repl.runInteractive()
	} else {
		repl.runBatch(os.Stdin)
	}
}

// session owns the live pool and every handler registered from the REPL.
type session struct {
	pool     *pool.Pool
	handlers map[int]*pipeHandler
}

func (s *session) shutdown() {
	for fd, h := range s.handlers {
		_ = s.pool.Unregister(h.fd)
		<-h.finished
		_ = h.Close()
		delete(s.handlers, fd)
	}
	_ = s.pool.Destroy()
	s.pool.JoinWithAllThreads()
}

func (s *session) runInteractive() {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	printBanner()
	for {
		input, err := line.Prompt("poolctl> ")
		if err != nil {
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		if !s.dispatch(input) {
			return
		}
	}
}

func (s *session) runBatch(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !s.dispatch(line) {
			return
		}
	}
}

func printBanner() {
	color.New(color.FgCyan, color.Bold).Println("poolctl — Leader/Follower pool admin console")
	fmt.Println("type 'help' for commands")
}

// dispatch runs one REPL command. It returns false when the session
// should end (quit/exit).
func (s *session) dispatch(line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch strings.ToLower(cmd) {
	case "help":
		printHelp()
	case "register":
		s.cmdRegister(args)
	case "unregister":
		s.cmdUnregister(args)
	case "send":
		s.cmdSend(args)
	case "stats":
		s.cmdStats()
	case "quit", "exit":
		return false
	default:
		color.New(color.FgYellow).Printf("unknown command %q; try 'help'\n", cmd)
	}
	return true
}

func printHelp() {
	fmt.Println(`commands:
  register <name>        register a new demo handler, prints its fd
  unregister <fd>         unregister a handler and wait for Finished
  send <fd> <text...>     frame text and write it to a registered handler
  stats                   render the pool's current sizing snapshot
  quit | exit             unregister everything and shut down`)
}

func (s *session) cmdRegister(args []string) {
	if len(args) != 1 {
		color.New(color.FgYellow).Println("usage: register <name>")
		return
	}
	h, err := newPipeHandler(args[0])
	if err != nil {
		color.New(color.FgRed).Println("register:", err)
		return
	}
	if err := s.pool.Register(h.fd, h); err != nil {
		color.New(color.FgRed).Println("register:", err)
		_ = h.Close()
		return
	}
	s.handlers[int(h.fd)] = h
	fmt.Printf("registered %q as fd %d\n", h.name, h.fd)
}

func (s *session) cmdUnregister(args []string) {
	fd, h, err := s.lookup(args)
	if err != nil {
		color.New(color.FgYellow).Println(err)
		return
	}
	if err := s.pool.Unregister(h.fd); err != nil {
		color.New(color.FgRed).Println("unregister:", err)
		return
	}
	<-h.finished
	_ = h.Close()
	delete(s.handlers, fd)
	fmt.Printf("unregistered fd %d\n", fd)
}

func (s *session) cmdSend(args []string) {
	if len(args) < 2 {
		color.New(color.FgYellow).Println("usage: send <fd> <text...>")
		return
	}
	_, h, err := s.lookup(args[:1])
	if err != nil {
		color.New(color.FgYellow).Println(err)
		return
	}
	if err := h.Send([]byte(strings.Join(args[1:], " "))); err != nil {
		color.New(color.FgRed).Println("send:", err)
	}
}

func (s *session) lookup(args []string) (int, *pipeHandler, error) {
	if len(args) != 1 {
		return 0, nil, errUsage
	}
	fd, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, nil, fmt.Errorf("invalid fd %q", args[0])
	}
	h, ok := s.handlers[fd]
	if !ok {
		return 0, nil, fmt.Errorf("no handler registered on fd %d", fd)
	}
	return fd, h, nil
}

func (s *session) cmdStats() {
	st := s.pool.Stats()

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Size", "SizeMax", "SizeWarn", "Running", "InUse", "Load", "Registered")
	_ = table.Append(
		strconv.Itoa(st.Size), strconv.Itoa(st.SizeMax), strconv.Itoa(st.SizeWarn),
		strconv.Itoa(st.Running), strconv.Itoa(st.InUse), fmt.Sprintf("%.2f", st.Load),
		strconv.Itoa(st.Registered),
	)
	_ = table.Render()

	fds := make([]int, 0, len(s.handlers))
	for fd := range s.handlers {
		fds = append(fds, fd)
	}
	sort.Ints(fds)
	for _, fd := range fds {
		fmt.Printf("  fd %d -> %s\n", fd, s.handlers[fd].name)
	}
}
