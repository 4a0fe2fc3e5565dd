package cli

import (
	"context"
	"fmt"
)

func (a *App) addFAQ(ctx context.Context) {
	question, err := GetSimpleText(a.reader, "Question", a.out)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	answer, err := GetSimpleText(a.reader, "Answer", a.out)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	if err := a.content.AddFAQ(ctx, question, answer); err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	fmt.Fprintln(a.out, "FAQ added")
}

func (a *App) setPolicy(ctx context.Context) {
	title, err := GetSimpleText(a.reader, "Policy title", a.out)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	description, err := GetSimpleText(a.reader, "Policy text", a.out)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	if err := a.content.SetPolicy(ctx, title, description); err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	fmt.Fprintln(a.out, "Policy saved")
}
