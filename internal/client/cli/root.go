package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

func (a *App) getStatus() string {
	if a.isLoggedIn() {
		return "(signed in)"
	}
	return ""
}

// Root runs the REPL until exit or EOF. Commands that touch the admin API
// are refused while signed out instead of producing opaque network errors.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the fleet console (type 'help' for commands)")

	for {
		fmt.Fprintf(a.out, "fleet %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				a.log.Error(ctx, "reading command", "error", err)
			}
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.help()
		case "login":
			a.login(ctx)
		case "signup":
			a.signup(ctx)
		case "verify":
			a.verifyEmail(ctx)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			if !a.isLoggedIn() {
				fmt.Fprintln(a.out, "Sign in first ('login').")
				continue
			}
			if !a.tokens.Fresh() {
				fmt.Fprintln(a.out, "Session expired. Sign in again ('login').")
				continue
			}
			a.dispatch(ctx, cmd, args)
		}
	}
}

func (a *App) dispatch(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "logout":
		a.logout(ctx)
	case "dashboard":
		a.dashboard(ctx)
	case "users":
		a.listUsers(ctx)
	case "new-users":
		a.listNewUsers(ctx)
	case "active-users":
		a.listActiveUsers(ctx)
	case "pending":
		a.listPendingAdmins(ctx)
	case "user":
		a.showUser(ctx, args)
	case "approve":
		a.approveAdmin(ctx, args)
	case "reject":
		a.rejectAdmin(ctx, args)
	case "delete-user":
		a.deleteUser(ctx, args)
	case "cars":
		a.listCars(ctx)
	case "recent-cars":
		a.listRecentCars(ctx)
	case "car":
		a.showCar(ctx, args)
	case "add-car":
		a.addCar(ctx)
	case "update-car":
		a.updateCar(ctx, args)
	case "delete-car":
		a.deleteCar(ctx, args)
	case "leases":
		a.listLeases(ctx)
	case "activity":
		a.listActivity(ctx)
	case "transactions":
		a.listTransactions(ctx)
	case "docs":
		a.showDocuments(ctx, args)
	case "approve-docs":
		a.approveDocuments(ctx, args)
	case "reject-docs":
		a.rejectDocuments(ctx, args)
	case "faq":
		a.addFAQ(ctx)
	case "policy":
		a.setPolicy(ctx)
	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
	}
}

func (a *App) help() {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Available commands: dashboard, users, new-users, active-users, pending,")
		fmt.Fprintln(a.out, "  user <id>, approve <id>, reject <id>, delete-user <id>,")
		fmt.Fprintln(a.out, "  cars, recent-cars, car <id>, add-car, update-car <id>, delete-car <id>,")
		fmt.Fprintln(a.out, "  leases, activity, transactions,")
		fmt.Fprintln(a.out, "  docs <id>, approve-docs <id>, reject-docs <id>,")
		fmt.Fprintln(a.out, "  faq, policy, logout, exit")
	} else {
		fmt.Fprintln(a.out, "Available commands: login, signup, verify, exit")
	}
}

// requireID extracts the single id argument most commands take.
func (a *App) requireID(args []string, usage string) (string, bool) {
	if len(args) != 1 || args[0] == "" {
		fmt.Fprintln(a.out, "Usage:", usage)
		return "", false
	}
	return args[0], true
}
