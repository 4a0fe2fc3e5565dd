package cli

import (
	"context"
	"fmt"

	"github.com/citycarcenters/fleetconsole/internal/client/models"
)

func (a *App) printUsers(list models.UserList) {
	if len(list.Users) == 0 {
		fmt.Fprintln(a.out, "(no users)")
		return
	}
	for _, u := range list.Users {
		fmt.Fprintf(a.out, "%s  %-20s  %-30s  %s/%s\n",
			u.ID, u.Name, u.Email, u.Status, u.DocumentStatus)
	}
}

func (a *App) listUsers(ctx context.Context) {
	list, err := a.users.All(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	a.printUsers(list)
}

func (a *App) listNewUsers(ctx context.Context) {
	list, err := a.users.New(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	a.printUsers(list)
}

func (a *App) listActiveUsers(ctx context.Context) {
	list, err := a.users.Active(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	a.printUsers(list)
}

func (a *App) listPendingAdmins(ctx context.Context) {
	list, err := a.users.PendingAdmins(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	a.printUsers(list)
}

// showUser opens the detail view and records the selection, so a push
// deletion of this user clears the panel.
func (a *App) showUser(ctx context.Context, args []string) {
	id, ok := a.requireID(args, "user <id>")
	if !ok {
		return
	}

	details, err := a.users.Details(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	a.userSel.Select(id, func() {
		fmt.Fprintln(a.out, "\nThe selected user was deleted; detail view closed.")
	})

	u := details.User
	fmt.Fprintf(a.out, "ID:        %s\n", u.ID)
	fmt.Fprintf(a.out, "Name:      %s\n", u.Name)
	fmt.Fprintf(a.out, "Email:     %s\n", u.Email)
	fmt.Fprintf(a.out, "Status:    %s\n", u.Status)
	fmt.Fprintf(a.out, "Documents: %s\n", u.DocumentStatus)
	fmt.Fprintf(a.out, "Created:   %s\n", u.CreatedAt.Format("2006-01-02 15:04"))
}

func (a *App) approveAdmin(ctx context.Context, args []string) {
	id, ok := a.requireID(args, "approve <id>")
	if !ok {
		return
	}
	if err := a.users.ApproveAdmin(ctx, id); err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	fmt.Fprintln(a.out, "Account approved")
}

func (a *App) rejectAdmin(ctx context.Context, args []string) {
	id, ok := a.requireID(args, "reject <id>")
	if !ok {
		return
	}
	if err := a.users.RejectAdmin(ctx, id); err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	fmt.Fprintln(a.out, "Account rejected and removed")
}

func (a *App) deleteUser(ctx context.Context, args []string) {
	id, ok := a.requireID(args, "delete-user <id>")
	if !ok {
		return
	}
	if err := a.users.Delete(ctx, id); err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	fmt.Fprintln(a.out, "User deleted")
}

func (a *App) showDocuments(ctx context.Context, args []string) {
	id, ok := a.requireID(args, "docs <id>")
	if !ok {
		return
	}
	docs, err := a.approvals.Documents(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	fmt.Fprintf(a.out, "Documents for %s: %s\n", docs.UserID, docs.DocumentStatus)
	for _, url := range docs.DocumentURLs {
		fmt.Fprintln(a.out, " -", url)
	}
}

func (a *App) approveDocuments(ctx context.Context, args []string) {
	id, ok := a.requireID(args, "approve-docs <id>")
	if !ok {
		return
	}
	if err := a.approvals.Approve(ctx, id); err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	fmt.Fprintln(a.out, "Documents verified")
}

func (a *App) rejectDocuments(ctx context.Context, args []string) {
	id, ok := a.requireID(args, "reject-docs <id>")
	if !ok {
		return
	}
	if err := a.approvals.Reject(ctx, id); err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	fmt.Fprintln(a.out, "Documents rejected")
}
