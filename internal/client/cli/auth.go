package cli

import (
	"context"
	"fmt"
)

func (a *App) login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}

	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}

	if err := a.auth.Login(ctx, email, string(password)); err != nil {
		fmt.Fprintln(a.out, "Login failed:", err)
		return
	}
	fmt.Fprintln(a.out, "Login successful")

	// The push channel needs a session, so it only opens now.
	a.bridge.Open(ctx)
}

func (a *App) signup(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}

	if err := a.auth.Signup(ctx, name, email, string(password)); err != nil {
		fmt.Fprintln(a.out, "Signup failed:", err)
		return
	}
	fmt.Fprintln(a.out, "Signed up. Check your inbox and run 'verify'; an admin must approve the account.")
}

func (a *App) verifyEmail(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	code, err := GetSimpleText(a.reader, "Enter verification code", a.out)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}

	if err := a.auth.VerifyEmail(ctx, email, code); err != nil {
		fmt.Fprintln(a.out, "Verification failed:", err)
		return
	}
	fmt.Fprintln(a.out, "Email verified")
}

func (a *App) logout(ctx context.Context) {
	a.bridge.Close()
	if err := a.auth.Logout(ctx); err != nil {
		fmt.Fprintln(a.out, "Logout:", err)
		return
	}
	fmt.Fprintln(a.out, "Logged out")
}
