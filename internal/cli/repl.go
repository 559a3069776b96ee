package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it
// with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs. The
// real App type satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Logout(ctx context.Context) error
	Home(ctx context.Context) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	UploadAvatar(ctx context.Context) error
	Balance(ctx context.Context) error
	Services(ctx context.Context) error
	Banners(ctx context.Context) error
	TopUp(ctx context.Context) error
	Pay(ctx context.Context) error
	History(ctx context.Context) error
	More(ctx context.Context) error
}

// runREPL reads a line, dispatches the first token as a command, and
// loops until EOF or exit/quit. Commands that require a session are
// gated here, mirroring the route guard: an anonymous user only sees
// login, register and exit.
//
// Errors returned by handlers are ignored at this level; handlers
// print their own messages, which keeps the loop resilient.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("simspay %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		if !a.isLoggedIn() {
			switch cmd {
			case "help":
				printlnFn("Available commands: login, register, exit")
			case "login":
				_ = a.Login(ctx)
			case "register":
				_ = a.Register(ctx)
			case "exit", "quit":
				printlnFn("Bye!")
				return
			default:
				printlnFn("Unknown command (or login required):", cmd)
			}
			continue
		}

		switch cmd {
		case "help":
			printlnFn("Available commands: home, profile, edit, avatar, balance, services, banners, topup, pay, history, more, logout, exit")
		case "home":
			_ = a.Home(ctx)
		case "profile":
			_ = a.Profile(ctx)
		case "edit":
			_ = a.EditProfile(ctx)
		case "avatar":
			_ = a.UploadAvatar(ctx)
		case "balance":
			_ = a.Balance(ctx)
		case "services":
			_ = a.Services(ctx)
		case "banners":
			_ = a.Banners(ctx)
		case "topup":
			_ = a.TopUp(ctx)
		case "pay":
			_ = a.Pay(ctx)
		case "history":
			_ = a.History(ctx)
		case "more":
			_ = a.More(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
